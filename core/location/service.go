package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/registrar/core"
)

const cachePrefix = "locations:"

var (
	// errors
	ErrUnavailable = errors.New("location service unavailable")

	codeRegex = regexp.MustCompile(`^[0-9A-Za-z]+$`)
)

// UpstreamError is returned when the location API answers with a non-2xx status.
type UpstreamError struct {
	Path   string
	Status int
}

func (err *UpstreamError) Error() string {
	return fmt.Sprintf("location API %s: status %d", err.Path, err.Status)
}

type (
	Options struct {
		BaseURL   string
		CacheTTL  time.Duration
		CacheSize int
		Timeout   time.Duration
	}

	// Service looks up the region > province > municipality hierarchy, caching every answer.
	Service struct {
		baseURL string
		client  *rest.Client
		cache   *expirable.LRU[string, json.RawMessage]
		logger  core.Logger
	}
)

func NewService(opts Options, logger core.Logger) (*Service, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(opts.BaseURL, "BaseURL"),
		vala.GreaterThan(int(opts.CacheTTL), 0, "CacheTTL"),
		vala.GreaterThan(opts.CacheSize, 0, "CacheSize"),
		vala.IsNotNil(logger, "logger"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "creating location service")
	}
	return &Service{
		baseURL: opts.BaseURL,
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: opts.Timeout}},
		cache:   expirable.NewLRU[string, json.RawMessage](opts.CacheSize, nil, opts.CacheTTL),
		logger:  logger,
	}, nil
}

func (svc *Service) Regions(ctx context.Context) (json.RawMessage, error) {
	return svc.fetch(ctx, "/regions/")
}

func (svc *Service) Provinces(ctx context.Context, regionCode string) (json.RawMessage, error) {
	if err := validateCode("region_code", regionCode); err != nil {
		return nil, err
	}
	return svc.fetch(ctx, "/regions/"+regionCode+"/provinces/")
}

func (svc *Service) Municipalities(ctx context.Context, provinceCode string) (json.RawMessage, error) {
	if err := validateCode("province_code", provinceCode); err != nil {
		return nil, err
	}
	return svc.fetch(ctx, "/provinces/"+provinceCode+"/cities-municipalities/")
}

// ClearCache drops every cached answer and returns how many there were.
func (svc *Service) ClearCache() int {
	n := svc.cache.Len()
	svc.cache.Purge()
	return n
}

func (svc *Service) fetch(ctx context.Context, path string) (json.RawMessage, error) {
	key := cachePrefix + path
	if data, ok := svc.cache.Get(key); ok {
		return data, nil
	}

	res, err := svc.client.SendWithContext(ctx, rest.Request{
		Method:  rest.Get,
		BaseURL: svc.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("fetching locations %s: %v", path, err), err)
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		svc.logger.Warn(fmt.Sprintf("fetching locations %s: status %d", path, res.StatusCode))
		return nil, &UpstreamError{Path: path, Status: res.StatusCode}
	}

	data := json.RawMessage(res.Body)
	if !json.Valid(data) {
		return nil, errors.Wrapf(ErrUnavailable, "invalid JSON from %s", path)
	}
	svc.cache.Add(key, data)
	return data, nil
}

func validateCode(field, code string) error {
	if !codeRegex.MatchString(code) {
		return core.NewValidationError(
			errors.Errorf("invalid %s", field),
			core.FieldError{Field: field, Error: "only alphanumeric characters are allowed"},
		)
	}
	return nil
}
