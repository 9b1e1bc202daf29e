package geofence

type VerifyRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

type VerifyLocationResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

type VerifyResponse struct {
	Verified     bool                    `json:"verified"`
	WorkLocation *VerifyLocationResponse `json:"work_location,omitempty"`
	Message      string                  `json:"message"`
}
