package update_step

// UpdateStepRequest HTTP request model
type UpdateStepRequest struct {
	Step string `json:"step"`
}
