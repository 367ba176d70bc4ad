package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"escort-route-service/internal/domain"
	"escort-route-service/internal/platform/httpx"
	"escort-route-service/internal/platform/obs"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var ErrPollTimeout = errors.New("solver did not finish within the poll budget")

// CuOptClient implements RouteSolver against a cuOpt server. The server may
// answer synchronously or queue the request and return a reqId, in which
// case the client polls the request status and then fetches the solution.
type CuOptClient struct {
	retrier      *httpx.Retrier
	baseURL      string
	pollAttempts int
	pollInterval time.Duration
}

func NewCuOptClient(baseURL string, pollAttempts int, pollInterval time.Duration) (*CuOptClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("cuopt base url is empty")
	}
	if pollAttempts < 1 {
		pollAttempts = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}

	return &CuOptClient{
		retrier:      httpx.NewRetrier(&http.Client{Timeout: 60 * time.Second}),
		baseURL:      baseURL,
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
	}, nil
}

func (c *CuOptClient) Solve(ctx context.Context, problem *domain.RoutingProblem) (_ *domain.SolverSolution, err error) {
	defer obs.Time(ctx, "solver.cuopt.Solve")(&err)

	body, err := buildRequest(problem)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal solver request: %w", err)
	}

	var res cuoptResult
	if err := c.call(ctx, http.MethodPost, c.baseURL+"/cuopt/request", payload, &res); err != nil {
		return nil, fmt.Errorf("submit solver request: %w", err)
	}

	if res.ReqID != "" && res.Response == nil {
		obs.Logger(ctx).Info().Str("solver_req_id", res.ReqID).Msg("solver request queued, polling")
		if err := c.poll(ctx, res.ReqID, &res); err != nil {
			return nil, err
		}
	}

	return res.solution()
}

// poll waits for a queued request to complete and loads its solution into out.
func (c *CuOptClient) poll(ctx context.Context, reqID string, out *cuoptResult) error {
	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)
	statusURL := fmt.Sprintf("%s/cuopt/request/%s", c.baseURL, reqID)
	solutionURL := fmt.Sprintf("%s/cuopt/solution/%s", c.baseURL, reqID)

	for attempt := 1; attempt <= c.pollAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("poll solver %s: %w", reqID, err)
		}

		var status json.RawMessage
		if err := c.call(ctx, http.MethodGet, statusURL, nil, &status); err != nil {
			obs.SolverPolls.WithLabelValues("error").Inc()
			obs.Logger(ctx).Warn().Err(err).Str("solver_req_id", reqID).Int("attempt", attempt).Msg("solver poll failed")
			continue
		}

		switch s := pollStatus(status); s {
		case "completed":
			obs.SolverPolls.WithLabelValues(s).Inc()
			if err := c.call(ctx, http.MethodGet, solutionURL, nil, out); err != nil {
				return fmt.Errorf("fetch solver solution %s: %w", reqID, err)
			}
			return nil
		case "failed":
			obs.SolverPolls.WithLabelValues(s).Inc()
			return fmt.Errorf("solver request %s failed: %w", reqID, domain.ErrInfeasible)
		default:
			obs.SolverPolls.WithLabelValues("pending").Inc()
		}
	}

	return fmt.Errorf("poll solver %s after %d attempts: %w", reqID, c.pollAttempts, ErrPollTimeout)
}

// pollStatus accepts both a bare JSON string and an object with a status field.
func pollStatus(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Status
	}
	return ""
}

func (c *CuOptClient) call(ctx context.Context, method, url string, payload []byte, out any) error {
	resp, err := c.retrier.Do(ctx, func() (*http.Request, error) {
		var body *bytes.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := newRequest(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return nil
}

func newRequest(ctx context.Context, method, url string, body *bytes.Reader) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, body)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
