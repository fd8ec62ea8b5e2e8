package models

// Requests for the forecast and trend HTTP endpoints. Defined in domain for
// consistency and reuse.

type HistoricRequest struct {
	SKU string `query:"sku" json:"sku" validate:"required"`
}

type ForecastRequest struct {
	SKU       string `query:"sku" json:"sku" validate:"required"`
	Horizon   int    `query:"horizon" json:"horizon" default:"14" validate:"gte=7,lte=30"`
	Region    string `query:"region" json:"region" default:"global"`
	StartDate string `query:"start_date" json:"start_date"`
}

type SocialRequest struct {
	Hashtag string `query:"hashtag" json:"hashtag"`
	TopN    int    `query:"top_n" json:"top_n" default:"10" validate:"gte=1,lte=100"`
}
