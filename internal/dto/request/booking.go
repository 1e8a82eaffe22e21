package request

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid cancelled"`
}
