package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/digestiflow/flowsheet/pkg/constants"
	"github.com/digestiflow/flowsheet/pkg/errors"
	"github.com/digestiflow/flowsheet/pkg/logging"
	"github.com/digestiflow/flowsheet/pkg/samplesheet"
)

// HTTPSource reads barcode sets from the barcode set API at
// <BaseURL>/api/barcodesets/<project>/.
type HTTPSource struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Logger  *zerolog.Logger
}

// NewHTTPSource creates a source for the API at baseURL. token may be empty.
func NewHTTPSource(baseURL, token string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: constants.DefaultHTTPTimeout},
	}
}

// Endpoint returns the URL of the barcode sets of project.
func (s *HTTPSource) Endpoint(project string) string {
	return fmt.Sprintf("%s/api/barcodesets/%s/", s.BaseURL, url.PathEscape(project))
}

// BarcodeSets implements Source.
func (s *HTTPSource) BarcodeSets(ctx context.Context, project string) ([]samplesheet.BarcodeSet, error) {
	if err := ValidateProject(project); err != nil {
		return nil, err
	}
	endpoint := s.Endpoint(project)
	logger := logging.OrNop(s.Logger)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WrapAPI(endpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Token "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: %w", errors.ErrTimeout, err)
		}
		return nil, &errors.APIError{
			Endpoint: endpoint,
			Message:  "failed to fetch barcode sets",
			Err:      fmt.Errorf("%w: %w", errors.ErrUnavailable, err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, errors.NewAPIError(endpoint, resp.StatusCode, msg)
	}

	var sets []samplesheet.BarcodeSet
	if err := json.NewDecoder(io.LimitReader(resp.Body, constants.MaxRequestBytes)).Decode(&sets); err != nil {
		return nil, errors.WrapParse("json", endpoint, err)
	}

	logger.Debug().
		Str("project", project).
		Str("endpoint", endpoint).
		Int("sets", len(sets)).
		Msg("fetched barcode sets")
	return sets, nil
}
