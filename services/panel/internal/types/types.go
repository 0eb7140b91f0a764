package types

type DismissRequest struct {
	ID   string `form:"id"`
	Back string `form:"back,optional"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Workspaces int    `json:"workspaces"`
}
