package models

// TargetRequest adds or overwrites a target item.
type TargetRequest struct {
	ItemID   int64 `json:"item_id" binding:"required,gt=0"`
	MaxPrice int   `json:"max_price" binding:"required,gt=0"`
}
