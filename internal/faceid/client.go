package faceid

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// VerifyResult is the collaborator's answer. The service is treated as
// unreliable: any transport or decode failure degrades to an
// unverified result, never an error to the caller.
type VerifyResult struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Encoding   string  `json:"encoding,omitempty"`
}

//go:generate mockgen -source=client.go -destination=mock/client_mock.go -package=mock
type Client interface {
	Verify(ctx context.Context, employeeID, photoRef, checkType string) VerifyResult
}

// Disabled is used when no face service is configured; everything
// comes back unverified.
type Disabled struct{}

func (Disabled) Verify(context.Context, string, string, string) VerifyResult {
	return VerifyResult{}
}

type client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds an HTTP client with a hard timeout; the identity
// service must never be able to stall a check-in.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.L()
	}
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named("faceid.client"),
	}
}

type verifyRequest struct {
	EmployeeID string `json:"employee_id"`
	PhotoRef   string `json:"photo_ref"`
	CheckType  string `json:"check_type"`
}

func (c *client) Verify(ctx context.Context, employeeID, photoRef, checkType string) VerifyResult {
	body, err := json.Marshal(verifyRequest{
		EmployeeID: employeeID,
		PhotoRef:   photoRef,
		CheckType:  checkType,
	})
	if err != nil {
		c.logger.Warn("face verify marshal failed", zap.Error(err))
		return VerifyResult{}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/verify", bytes.NewReader(body),
	)
	if err != nil {
		c.logger.Warn("face verify request build failed", zap.Error(err))
		return VerifyResult{}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("face verify call failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return VerifyResult{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("face verify unexpected status",
			zap.String("employee_id", employeeID),
			zap.Int("status", resp.StatusCode),
		)
		return VerifyResult{}
	}

	var result VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn("face verify decode failed", zap.Error(err))
		return VerifyResult{}
	}
	return result
}
