package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgkafka "demandcast/pkg/kafka"
)

// Seeds data/historic.csv and data/social.csv with 30 days of plausible
// demand and mention volume, optionally replaying the social rows onto the
// mentions topic to exercise the live ingest path.
func main() {
	dataDir := flag.String("data-dir", "data", "directory to write CSV files into")
	days := flag.Int("days", 30, "number of days to generate")
	brokers := flag.String("brokers", "", "comma-separated Kafka brokers; when set, social rows are also published")
	topic := flag.String("topic", "social.mentions", "Kafka topic for published mention events")
	flag.Parse()

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(*days - 1))

	social := writeDatasets(*dataDir, start, *days)

	if *brokers != "" {
		publish(strings.Split(*brokers, ","), *topic, social)
	}
}

type mentionRow struct {
	Date     string `json:"date"`
	SKU      string `json:"sku"`
	Source   string `json:"source"`
	Hashtag  string `json:"hashtag"`
	Mentions int    `json:"mentions"`
}

func writeDatasets(dir string, start time.Time, days int) []mentionRow {
	var hb strings.Builder
	hb.WriteString("date,sku,units\n")
	for _, sku := range []string{"GS-019", "BL-101"} {
		base := 50 + rand.Intn(150)
		for i := 0; i < days; i++ {
			d := start.AddDate(0, 0, i)
			units := base + rand.Intn(40) - 20
			if units < 0 {
				units = 0
			}
			fmt.Fprintf(&hb, "%s,%s,%d\n", d.Format("2006-01-02"), sku, units)
		}
	}
	historicPath := filepath.Join(dir, "historic.csv")
	if err := os.WriteFile(historicPath, []byte(hb.String()), 0o644); err != nil {
		log.Fatalf("write historic.csv: %v", err)
	}

	hashtags := []string{"#sale", "#new", "#trend"}
	var rows []mentionRow
	var sb strings.Builder
	sb.WriteString("date,sku,source,hashtag,mentions\n")
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		for _, h := range hashtags {
			row := mentionRow{
				Date:     d.Format("2006-01-02"),
				SKU:      "GS-019",
				Source:   "TikTok",
				Hashtag:  h,
				Mentions: rand.Intn(50),
			}
			rows = append(rows, row)
			fmt.Fprintf(&sb, "%s,%s,%s,%s,%d\n", row.Date, row.SKU, row.Source, row.Hashtag, row.Mentions)
		}
	}
	socialPath := filepath.Join(dir, "social.csv")
	if err := os.WriteFile(socialPath, []byte(sb.String()), 0o644); err != nil {
		log.Fatalf("write social.csv: %v", err)
	}

	log.Printf("seeded %s and %s with %d days", historicPath, socialPath, days)
	return rows
}

func publish(brokers []string, topic string, rows []mentionRow) {
	producer, err := pkgkafka.NewProducer(pkgkafka.WithProducerBrokers(brokers))
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}
	defer producer.Close()

	msgs := make([]pkgkafka.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(row.SKU), Value: row})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := producer.PublishBatch(ctx, topic, msgs); err != nil {
		log.Fatalf("publish mention events: %v", err)
	}
	log.Printf("published %d mention events to %s", len(msgs), topic)
}
