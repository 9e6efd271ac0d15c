package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
	"github.com/vuzon/vuzon/config"
	"github.com/vuzon/vuzon/global"
	"github.com/vuzon/vuzon/metrics"
	"github.com/vuzon/vuzon/types"
)

// DefaultBaseURL is the provider's v4 client API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// pageSize is the per_page value used when aggregating listings.
const pageSize = 50

// CloudflareService issues authenticated calls against the provider's email
// routing API. It is stateless; every operation is a single request, except
// the listing helpers which page sequentially.
type CloudflareService struct {
	client    *resty.Client
	accountID string
	zoneID    string
}

// NewCloudflareService builds the upstream client. No retries and no client
// timeout: one upstream failure is one reported failure.
func NewCloudflareService(conf config.Config, mock bool) *CloudflareService {
	cl := resty.New().SetBaseURL(DefaultBaseURL)
	cl.SetHeader("Content-Type", "application/json")
	cl.SetHeader("Accept", "application/json")
	cl.SetAuthToken(conf.APIToken)

	if mock {
		httpmock.ActivateNonDefault(cl.GetClient())
	}

	return &CloudflareService{client: cl, accountID: conf.AccountID, zoneID: conf.ZoneID}
}

// AutoConfigure fills in missing zone and account ids by looking up the zone
// that matches the configured root domain. A failure here is fatal to
// startup; the caller decides that.
func AutoConfigure(ctx context.Context, conf config.Config, mock bool) (config.Config, error) {
	if conf.ZoneID != "" && conf.AccountID != "" {
		return conf, nil
	}
	svc := NewCloudflareService(conf, mock)
	zone, err := svc.ResolveZone(ctx, conf.RootDomain)
	if err != nil {
		return conf, err
	}
	if conf.ZoneID == "" {
		conf.ZoneID = zone.ID
	}
	if conf.AccountID == "" {
		conf.AccountID = zone.Account.ID
	}
	global.Logger.Log("msg", "resolved zone from root domain", "domain", conf.RootDomain, "zone", conf.ZoneID)
	return conf, nil
}

// request issues one call and unwraps the provider envelope. The call failed
// when the transport errors, the response is not 2xx, or the envelope
// reports success=false; the returned error then carries the provider's
// first error message (or a generic "Error <status>").
func (c *CloudflareService) request(ctx context.Context, method, path string, body interface{}) (json.RawMessage, *types.Envelope, error) {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.UpstreamRequestsMetricsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, nil, err
	}

	var envelope types.Envelope
	if uErr := json.Unmarshal(resp.Body(), &envelope); uErr != nil {
		metrics.UpstreamRequestsMetricsTotal.WithLabelValues(method, "error").Inc()
		if resp.IsError() {
			return nil, nil, types.NewUpstreamError(resp.StatusCode(), nil)
		}
		return nil, nil, &types.ParseError{Path: path, Err: uErr}
	}
	if resp.IsError() || !envelope.Success {
		metrics.UpstreamRequestsMetricsTotal.WithLabelValues(method, "error").Inc()
		return nil, nil, types.NewUpstreamError(resp.StatusCode(), envelope.Errors)
	}
	metrics.UpstreamRequestsMetricsTotal.WithLabelValues(method, "ok").Inc()
	return envelope.Result, &envelope, nil
}

// requestAll aggregates a paginated listing into one ordered slice. Pages
// are fetched sequentially at a fixed page size until the page counter
// exceeds the provider-reported total page count (one page when the
// response carries no pagination metadata). A failure on any page aborts
// the whole aggregation.
func (c *CloudflareService) requestAll(ctx context.Context, path string) ([]json.RawMessage, error) {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}

	var all []json.RawMessage
	page := 1
	totalPages := 1
	for page <= totalPages {
		pagedPath := fmt.Sprintf("%s%spage=%d&per_page=%d", path, separator, page, pageSize)
		result, envelope, err := c.request(ctx, http.MethodGet, pagedPath, nil)
		if err != nil {
			return nil, err
		}
		if len(result) > 0 {
			var items []json.RawMessage
			if uErr := json.Unmarshal(result, &items); uErr != nil {
				return nil, &types.ParseError{Path: path, Err: uErr}
			}
			all = append(all, items...)
		}
		if envelope.ResultInfo != nil {
			totalPages = envelope.ResultInfo.TotalPages
		}
		page++
	}
	return all, nil
}

func (c *CloudflareService) addressesPath() string {
	return fmt.Sprintf("/accounts/%s/email/routing/addresses", c.accountID)
}

func (c *CloudflareService) rulesPath() string {
	return fmt.Sprintf("/zones/%s/email/routing/rules", c.zoneID)
}

// ListAddresses returns all destination addresses across all pages.
func (c *CloudflareService) ListAddresses(ctx context.Context) ([]types.DestinationAddress, error) {
	raw, err := c.requestAll(ctx, c.addressesPath())
	if err != nil {
		return nil, err
	}
	addresses := make([]types.DestinationAddress, 0, len(raw))
	for _, item := range raw {
		var addr types.DestinationAddress
		if uErr := json.Unmarshal(item, &addr); uErr != nil {
			return nil, &types.ParseError{Path: c.addressesPath(), Err: uErr}
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// CreateAddress registers a new destination mailbox. The provider sends the
// verification email; the address stays unusable until verified.
func (c *CloudflareService) CreateAddress(ctx context.Context, email string) (*types.DestinationAddress, error) {
	result, _, err := c.request(ctx, http.MethodPost, c.addressesPath(), map[string]string{"email": email})
	if err != nil {
		return nil, err
	}
	var addr types.DestinationAddress
	if uErr := json.Unmarshal(result, &addr); uErr != nil {
		return nil, &types.ParseError{Path: c.addressesPath(), Err: uErr}
	}
	return &addr, nil
}

func (c *CloudflareService) DeleteAddress(ctx context.Context, id string) error {
	_, _, err := c.request(ctx, http.MethodDelete, c.addressesPath()+"/"+id, nil)
	return err
}

// ListRules returns all forwarding rules across all pages.
func (c *CloudflareService) ListRules(ctx context.Context) ([]types.ForwardingRule, error) {
	raw, err := c.requestAll(ctx, c.rulesPath())
	if err != nil {
		return nil, err
	}
	rules := make([]types.ForwardingRule, 0, len(raw))
	for _, item := range raw {
		var rule types.ForwardingRule
		if uErr := json.Unmarshal(item, &rule); uErr != nil {
			return nil, &types.ParseError{Path: c.rulesPath(), Err: uErr}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (c *CloudflareService) CreateRule(ctx context.Context, rule types.ForwardingRule) (*types.ForwardingRule, error) {
	result, _, err := c.request(ctx, http.MethodPost, c.rulesPath(), rule)
	if err != nil {
		return nil, err
	}
	var created types.ForwardingRule
	if uErr := json.Unmarshal(result, &created); uErr != nil {
		return nil, &types.ParseError{Path: c.rulesPath(), Err: uErr}
	}
	return &created, nil
}

// GetRule returns the full current rule record as a generic map so that
// fields this server does not model survive a read-modify-write cycle.
func (c *CloudflareService) GetRule(ctx context.Context, id string) (map[string]interface{}, error) {
	result, _, err := c.request(ctx, http.MethodGet, c.rulesPath()+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	var rule map[string]interface{}
	if uErr := json.Unmarshal(result, &rule); uErr != nil {
		return nil, &types.ParseError{Path: c.rulesPath(), Err: uErr}
	}
	return rule, nil
}

// SetRuleEnabled flips a rule's enabled flag. The upstream update endpoint
// replaces the whole record, so the current record is read first and written
// back with only the enabled field changed. A rule changing between the read
// and the write is an accepted stale-read race.
func (c *CloudflareService) SetRuleEnabled(ctx context.Context, id string, enabled bool) (json.RawMessage, error) {
	rule, err := c.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	rule["enabled"] = enabled
	result, _, putErr := c.request(ctx, http.MethodPut, c.rulesPath()+"/"+id, rule)
	if putErr != nil {
		level.Error(global.Logger).Log("msg", "failed to write back rule", "rule", id, "err", putErr)
		return nil, putErr
	}
	return result, nil
}

func (c *CloudflareService) DeleteRule(ctx context.Context, id string) error {
	_, _, err := c.request(ctx, http.MethodDelete, c.rulesPath()+"/"+id, nil)
	return err
}

// ResolveZone looks up the zone record matching a domain name.
func (c *CloudflareService) ResolveZone(ctx context.Context, domain string) (*types.Zone, error) {
	result, _, err := c.request(ctx, http.MethodGet, "/zones?name="+url.QueryEscape(domain), nil)
	if err != nil {
		return nil, err
	}
	var zones []types.Zone
	if uErr := json.Unmarshal(result, &zones); uErr != nil {
		return nil, &types.ParseError{Path: "/zones", Err: uErr}
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no zone found for domain %s", domain)
	}
	return &zones[0], nil
}
