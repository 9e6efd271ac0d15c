package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/vuzon/vuzon/config"
	"github.com/vuzon/vuzon/types"
)

func testConfig() config.Config {
	return config.Config{
		APIToken:        "test-token",
		AccountID:       "acc1",
		ZoneID:          "zone1",
		RootDomain:      "example.com",
		SessionSecret:   "sekrit",
		SessionTTLHours: 1,
	}
}

func envelopeJSON(t *testing.T, result interface{}, info *types.ResultInfo) string {
	t.Helper()
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	env := types.Envelope{Success: true, Result: raw, ResultInfo: info}
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func addressPage(page, count int) []types.DestinationAddress {
	out := make([]types.DestinationAddress, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, types.DestinationAddress{
			ID:       fmt.Sprintf("id-%d-%d", page, i),
			Email:    fmt.Sprintf("user%d.%d@dest.example", page, i),
			Verified: types.NewVerificationSignal(true),
		})
	}
	return out
}

func TestListAddressesAggregatesPages(t *testing.T) {
	svc := NewCloudflareService(testConfig(), true)
	defer httpmock.DeactivateAndReset()

	base := DefaultBaseURL + "/accounts/acc1/email/routing/addresses"
	info := &types.ResultInfo{TotalPages: 3}
	for page := 1; page <= 3; page++ {
		httpmock.RegisterResponder("GET", fmt.Sprintf("%s?page=%d&per_page=50", base, page),
			httpmock.NewStringResponder(200, envelopeJSON(t, addressPage(page, 50), info)))
	}

	addresses, err := svc.ListAddresses(context.Background())
	assert.NoError(t, err)
	assert.Len(t, addresses, 150)

	// stable page-then-in-page order
	assert.Equal(t, "id-1-0", addresses[0].ID)
	assert.Equal(t, "id-1-49", addresses[49].ID)
	assert.Equal(t, "id-2-0", addresses[50].ID)
	assert.Equal(t, "id-3-49", addresses[149].ID)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestListAddressesWithoutResultInfoFetchesOnePage(t *testing.T) {
	svc := NewCloudflareService(testConfig(), true)
	defer httpmock.DeactivateAndReset()

	base := DefaultBaseURL + "/accounts/acc1/email/routing/addresses"
	httpmock.RegisterResponder("GET", base+"?page=1&per_page=50",
		httpmock.NewStringResponder(200, envelopeJSON(t, addressPage(1, 25), nil)))

	addresses, err := svc.ListAddresses(context.Background())
	assert.NoError(t, err)
	assert.Len(t, addresses, 25)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestRequestAllAppendsToExistingQuery(t *testing.T) {
	svc := NewCloudflareService(testConfig(), true)
	defer httpmock.DeactivateAndReset()

	base := DefaultBaseURL + "/accounts/acc1/email/routing/addresses"
	httpmock.RegisterResponder("GET", base+"?verified=true&page=1&per_page=50",
		httpmock.NewStringResponder(200, envelopeJSON(t, addressPage(1, 2), nil)))

	items, err := svc.requestAll(context.Background(), "/accounts/acc1/email/routing/addresses?verified=true")
	assert.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRequestAllAbortsOnPageFailure(t *testing.T) {
	svc := NewCloudflareService(testConfig(), true)
	defer httpmock.DeactivateAndReset()

	base := DefaultBaseURL + "/accounts/acc1/email/routing/addresses"
	info := &types.ResultInfo{TotalPages: 2}
	httpmock.RegisterResponder("GET", base+"?page=1&per_page=50",
		httpmock.NewStringResponder(200, envelopeJSON(t, addressPage(1, 50), info)))
	httpmock.RegisterResponder("GET", base+"?page=2&per_page=50",
		httpmock.NewStringResponder(200, `{"success":false,"errors":[{"message":"Rate limited: slow down"}]}`))

	_, err := svc.ListAddresses(context.Background())
	assert.Error(t, err)
	var upstreamErr *types.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "Rate limited: slow down", upstreamErr.Message)
}

func TestRequestErrorWithoutEnvelopeMessage(t *testing.T) {
	svc := NewCloudflareService(testConfig(), true)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", DefaultBaseURL+"/accounts/acc1/email/routing/addresses",
		httpmock.NewStringResponder(502, `{"success":false}`))

	_, err := svc.CreateAddress(context.Background(), "me@dest.example")
	var upstreamErr *types.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "Error 502", upstreamErr.Message)
	assert.Equal(t, 502, upstreamErr.StatusCode)
}

func TestSetRuleEnabledPreservesAllOtherFields(t *testing.T) {
	svc := NewCloudflareService(testConfig(), true)
	defer httpmock.DeactivateAndReset()

	current := map[string]interface{}{
		"id":       "r1",
		"name":     "jobs@example.com",
		"enabled":  true,
		"priority": float64(4),
		"tag":      "opaque-upstream-tag",
		"matchers": []interface{}{
			map[string]interface{}{"type": "literal", "field": "to", "value": "jobs@example.com"},
		},
		"actions": []interface{}{
			map[string]interface{}{"type": "forward", "value": []interface{}{"me@dest.com"}},
		},
	}
	ruleURL := DefaultBaseURL + "/zones/zone1/email/routing/rules/r1"
	httpmock.RegisterResponder("GET", ruleURL,
		httpmock.NewStringResponder(200, envelopeJSON(t, current, nil)))

	var written map[string]interface{}
	httpmock.RegisterResponder("PUT", ruleURL, func(req *http.Request) (*http.Response, error) {
		body, rErr := io.ReadAll(req.Body)
		if rErr != nil {
			return nil, rErr
		}
		if uErr := json.Unmarshal(body, &written); uErr != nil {
			return nil, uErr
		}
		return httpmock.NewStringResponse(200, envelopeJSON(t, written, nil)), nil
	})

	_, err := svc.SetRuleEnabled(context.Background(), "r1", false)
	assert.NoError(t, err)

	expected := map[string]interface{}{}
	for k, v := range current {
		expected[k] = v
	}
	expected["enabled"] = false
	assert.Equal(t, expected, written)
}

func TestSetRuleEnabledAbortsWhenReadFails(t *testing.T) {
	svc := NewCloudflareService(testConfig(), true)
	defer httpmock.DeactivateAndReset()

	ruleURL := DefaultBaseURL + "/zones/zone1/email/routing/rules/r1"
	httpmock.RegisterResponder("GET", ruleURL,
		httpmock.NewStringResponder(404, `{"success":false,"errors":[{"message":"rule not found"}]}`))

	_, err := svc.SetRuleEnabled(context.Background(), "r1", false)
	assert.Error(t, err)
	// the write must never happen when the read failed
	info := httpmock.GetCallCountInfo()
	assert.Zero(t, info["PUT "+ruleURL])
}

func TestAutoConfigureResolvesZoneAndAccount(t *testing.T) {
	conf := testConfig()
	conf.ZoneID = ""
	conf.AccountID = ""

	httpmock.RegisterResponder("GET", DefaultBaseURL+"/zones?name=example.com",
		httpmock.NewStringResponder(200, envelopeJSON(t, []types.Zone{
			{ID: "zone-9", Name: "example.com", Account: types.ZoneAccount{ID: "acc-9"}},
		}, nil)))
	defer httpmock.DeactivateAndReset()

	resolved, err := AutoConfigure(context.Background(), conf, true)
	assert.NoError(t, err)
	assert.Equal(t, "zone-9", resolved.ZoneID)
	assert.Equal(t, "acc-9", resolved.AccountID)
}

func TestAutoConfigureFailsWhenZoneMissing(t *testing.T) {
	conf := testConfig()
	conf.ZoneID = ""
	conf.AccountID = ""

	httpmock.RegisterResponder("GET", DefaultBaseURL+"/zones?name=example.com",
		httpmock.NewStringResponder(200, envelopeJSON(t, []types.Zone{}, nil)))
	defer httpmock.DeactivateAndReset()

	_, err := AutoConfigure(context.Background(), conf, true)
	assert.Error(t, err)
}
