// Package search talks to the upstream JSearch-style job API. One call per
// query descriptor; quota failures rotate through the key pool before they
// surface to the caller.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/plan"
)

const DefaultBaseURL = "https://api.openwebninja.com/jsearch"

// QuotaError marks an upstream failure class meaning the key's allowance is
// spent. The client retries these on the next key; everything else is final.
type QuotaError struct {
	Status int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("search quota exhausted (status %d)", e.Status)
}

func IsQuota(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// RawListing is one result as the upstream returns it.
type RawListing struct {
	JobID          string         `json:"job_id"`
	Title          string         `json:"job_title"`
	EmployerName   string         `json:"employer_name"`
	EmployerLogo   string         `json:"employer_logo"`
	EmploymentType string         `json:"job_employment_type"`
	ApplyLink      string         `json:"job_apply_link"`
	Description    string         `json:"job_description"`
	IsRemote       *bool          `json:"job_is_remote"`
	PostedAtUTC    *string        `json:"job_posted_at_datetime_utc"`
	Location       string         `json:"job_location"`
	City           string         `json:"job_city"`
	State          string         `json:"job_state"`
	Country        string         `json:"job_country"`
	MinSalary      *float64       `json:"job_min_salary"`
	MaxSalary      *float64       `json:"job_max_salary"`
	SalaryPeriod   string         `json:"job_salary_period"`
	Highlights     *rawHighlights `json:"job_highlights"`
}

type rawHighlights struct {
	Qualifications   []string `json:"Qualifications"`
	Responsibilities []string `json:"Responsibilities"`
	Benefits         []string `json:"Benefits"`
}

type searchResponse struct {
	Status string       `json:"status"`
	Data   []RawListing `json:"data"`
}

// Listing converts the raw result into the domain shape. The canonical URL
// and fingerprint are left for the resolver.
func (r RawListing) Listing() domain.Listing {
	l := domain.Listing{
		Source:         "jsearch",
		SourceJobID:    r.JobID,
		Title:          r.Title,
		Company:        r.EmployerName,
		CompanyLogo:    r.EmployerLogo,
		Location:       r.Location,
		City:           r.City,
		State:          r.State,
		Country:        r.Country,
		Description:    r.Description,
		ApplyURL:       r.ApplyLink,
		EmploymentType: r.EmploymentType,
		SalaryMin:      r.MinSalary,
		SalaryMax:      r.MaxSalary,
		SalaryPeriod:   r.SalaryPeriod,
	}
	if r.IsRemote != nil {
		l.IsRemote = *r.IsRemote
	}
	if r.PostedAtUTC != nil {
		if t, err := time.Parse(time.RFC3339, *r.PostedAtUTC); err == nil {
			t = t.UTC()
			l.PostedAt = &t
		}
	}
	if r.Highlights != nil {
		l.Highlights = domain.Highlights{
			Qualifications:   r.Highlights.Qualifications,
			Responsibilities: r.Highlights.Responsibilities,
			Benefits:         r.Highlights.Benefits,
		}
	}
	return l
}

type Client struct {
	BaseURL string
	Keys    *KeyPool
	HC      *http.Client
	Limiter *rate.Limiter
}

func NewClient(baseURL string, keys *KeyPool, reqPerSec float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if reqPerSec <= 0 {
		reqPerSec = 1
	}
	return &Client{
		BaseURL: baseURL,
		Keys:    keys,
		HC:      &http.Client{Timeout: 30 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

// Search executes one query. On a quota failure it rotates to the next key
// and retries the same query until the pool is exhausted; other failures are
// returned as-is without retrying.
func (c *Client) Search(ctx context.Context, q plan.Query) ([]RawListing, error) {
	var lastErr error
	for attempt := 0; attempt < c.Keys.Len(); attempt++ {
		key := c.Keys.Current()
		listings, err := c.searchOnce(ctx, q, key)
		if err == nil {
			return listings, nil
		}
		if !IsQuota(err) {
			return nil, err
		}
		lastErr = err
		c.Keys.Rotate(key)
	}
	return nil, fmt.Errorf("all %d keys exhausted: %w", c.Keys.Len(), lastErr)
}

func (c *Client) searchOnce(ctx context.Context, q plan.Query, key string) ([]RawListing, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+encodeParams(q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", key)

	res, err := c.HC.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	// 429 and 403 mean the key's allowance is spent.
	if res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusForbidden {
		return nil, &QuotaError{Status: res.StatusCode}
	}
	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return nil, fmt.Errorf("search status %d: %s", res.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return sr.Data, nil
}

func encodeParams(q plan.Query) string {
	v := url.Values{}
	v.Set("query", q.Query)
	if q.NumPages > 0 {
		v.Set("num_pages", strconv.Itoa(q.NumPages))
	}
	if q.Country != "" {
		v.Set("country", q.Country)
	}
	if q.DatePosted != "" {
		v.Set("date_posted", q.DatePosted)
	}
	if q.WorkFromHome {
		v.Set("work_from_home", "true")
	}
	if q.Radius > 0 {
		v.Set("radius", strconv.Itoa(q.Radius))
	}
	if q.EmploymentTypes != "" {
		v.Set("employment_types", q.EmploymentTypes)
	}
	if q.JobRequirements != "" {
		v.Set("job_requirements", q.JobRequirements)
	}
	if q.ExcludePublishers != "" {
		v.Set("exclude_job_publishers", q.ExcludePublishers)
	}
	return v.Encode()
}
