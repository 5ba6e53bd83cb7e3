package energidataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/icodeforyou/spotboard-go/types"
)

const DefaultBaseURL = "https://api.energidataservice.dk"

type recordsResponse struct {
	Total   int               `json:"total"`
	Dataset string            `json:"dataset"`
	Records []types.RawRecord `json:"records"`
}

// EnergiDataService reads datasets from the Danish TSO's open data API.
type EnergiDataService struct {
	baseURL         string
	priceArea       string
	generationLimit int
	client          *http.Client
}

func New(baseURL string, priceArea string, generationLimit int, timeout time.Duration) EnergiDataService {
	return EnergiDataService{
		baseURL:         strings.TrimRight(baseURL, "/"),
		priceArea:       priceArea,
		generationLimit: generationLimit,
		client:          httpClient(timeout),
	}
}

func (e EnergiDataService) PriceArea() string {
	return e.priceArea
}

func (e EnergiDataService) getRecords(ctx context.Context, dataset string, query url.Values) ([]types.RawRecord, error) {
	// The API wants %20 rather than + for spaces, a literal + is already %2B.
	u := fmt.Sprintf("%s/dataset/%s?%s", e.baseURL, dataset, strings.ReplaceAll(query.Encode(), "+", "%20"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", types.ErrFetchFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch %s: %w", types.ErrFetchFailure, dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status code: %d", types.ErrFetchFailure, dataset, resp.StatusCode)
	}

	var body recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s response: %w", types.ErrFetchFailure, dataset, err)
	}

	if body.Records == nil {
		return []types.RawRecord{}, nil
	}
	return body.Records, nil
}
