package models

import "time"

type Crop struct {
	ID          int64          `json:"id"`
	CropName    string         `json:"cropName"`
	Price       float64        `json:"price"`
	Quantity    int            `json:"quantity"`
	Description string         `json:"description,omitempty"`
	FarmerID    int64          `json:"farmerId"`
	Farmer      *FarmerSummary `json:"farmer,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type CropCreateRequest struct {
	CropName    string  `json:"cropName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
}

// CropUpdateRequest whitelists the mutable crop fields.
type CropUpdateRequest struct {
	CropName    *string  `json:"cropName,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type Statistics struct {
	TotalFarmers   int64 `json:"totalFarmers"`
	TotalMerchants int64 `json:"totalMerchants"`
	TotalUsers     int64 `json:"totalUsers"`
}
