package request

type RedeemPointsRequest struct {
	Amount      int    `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=500"`
}
