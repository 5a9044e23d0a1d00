package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wikicurator/artbot/internal/worker"
)

// Wikibase is a minimal edit client for the registry's action API. It covers
// exactly the calls the uploader needs: create an item, read its claims and
// terms, add statements with qualifiers and references, and extend labels
// and descriptions.
type Wikibase struct {
	httpClient *http.Client
	apiURL     string
	userAgent  string
	limiter    *worker.Limiter

	csrfToken string
}

// NewWikibase creates an edit client. The caller is expected to be operating
// with an authenticated http.Client (cookie jar holding a bot session) or
// against a local test instance that accepts anonymous edits.
func NewWikibase(apiURL, userAgent string, timeout time.Duration, limiter *worker.Limiter) *Wikibase {
	return &Wikibase{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		userAgent:  userAgent,
		limiter:    limiter,
	}
}

// apiError is the error envelope of the action API
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// APIError is returned for any request the registry rejected
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry api error %s: %s", e.Code, e.Info)
}

// IsLabelCollision reports whether err is the registry refusing an item
// because another item already has the same label and description
func IsLabelCollision(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == "modification-failed" &&
		strings.Contains(apiErr.Info, "same label and description")
}

// Claim is one existing statement on an item, reduced to what the uploader
// checks before deciding whether to add its own
type Claim struct {
	ID         string
	Property   string
	TargetQID  string // set for item-valued claims
	StringVal  string // set for string-valued claims
	Qualifiers map[string][]string
}

// CreateItem creates a new item with the given labels and descriptions and
// returns its id. A label collision surfaces as an APIError the caller can
// detect with IsLabelCollision and retry with disambiguated descriptions.
func (w *Wikibase) CreateItem(ctx context.Context, labels, descriptions map[string]string, summary string) (string, error) {
	entity := map[string]any{
		"labels":       languageValues(labels),
		"descriptions": languageValues(descriptions),
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf("marshal entity: %w", err)
	}

	resp, err := w.post(ctx, url.Values{
		"action":  {"wbeditentity"},
		"new":     {"item"},
		"data":    {string(data)},
		"summary": {summary},
	})
	if err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}

	var parsed struct {
		Entity struct {
			ID string `json:"id"`
		} `json:"entity"`
	}
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return "", fmt.Errorf("parse create response: %w", err)
	}
	if parsed.Entity.ID == "" {
		return "", fmt.Errorf("create item: no id in response")
	}
	return parsed.Entity.ID, nil
}

// SetLabel sets a label in one language on an existing item, leaving other
// languages alone
func (w *Wikibase) SetLabel(ctx context.Context, qid, language, label, summary string) error {
	_, err := w.post(ctx, url.Values{
		"action":   {"wbsetlabel"},
		"id":       {qid},
		"language": {language},
		"value":    {label},
		"summary":  {summary},
	})
	if err != nil {
		return fmt.Errorf("set %s label on %s: %w", language, qid, err)
	}
	return nil
}

// SetDescription sets a description in one language on an existing item. A
// collision with another item's label and description pair surfaces as an
// APIError the caller can detect with IsLabelCollision.
func (w *Wikibase) SetDescription(ctx context.Context, qid, language, description, summary string) error {
	_, err := w.post(ctx, url.Values{
		"action":   {"wbsetdescription"},
		"id":       {qid},
		"language": {language},
		"value":    {description},
		"summary":  {summary},
	})
	if err != nil {
		return fmt.Errorf("set %s description on %s: %w", language, qid, err)
	}
	return nil
}

// Claims returns the item's existing statements grouped by property
func (w *Wikibase) Claims(ctx context.Context, qid string) (map[string][]Claim, error) {
	body, err := w.get(ctx, url.Values{
		"action": {"wbgetclaims"},
		"entity": {qid},
	})
	if err != nil {
		return nil, fmt.Errorf("get claims: %w", err)
	}

	var parsed struct {
		Claims map[string][]rawClaim `json:"claims"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	claims := make(map[string][]Claim, len(parsed.Claims))
	for property, raws := range parsed.Claims {
		for _, raw := range raws {
			claims[property] = append(claims[property], raw.simplify(property))
		}
	}
	return claims, nil
}

// Terms returns the item's current labels and descriptions by language
func (w *Wikibase) Terms(ctx context.Context, qid string) (labels, descriptions map[string]string, err error) {
	body, err := w.get(ctx, url.Values{
		"action": {"wbgetentities"},
		"ids":    {qid},
		"props":  {"labels|descriptions"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get terms of %s: %w", qid, err)
	}

	var parsed struct {
		Entities map[string]struct {
			Labels       map[string]languageValue `json:"labels"`
			Descriptions map[string]languageValue `json:"descriptions"`
		} `json:"entities"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, fmt.Errorf("parse entities: %w", err)
	}

	entity, ok := parsed.Entities[qid]
	if !ok {
		return nil, nil, fmt.Errorf("no entity %s in response", qid)
	}

	labels = make(map[string]string, len(entity.Labels))
	for lang, term := range entity.Labels {
		labels[lang] = term.Value
	}
	descriptions = make(map[string]string, len(entity.Descriptions))
	for lang, term := range entity.Descriptions {
		descriptions[lang] = term.Value
	}
	return labels, descriptions, nil
}

// FileSize returns the byte size of an uploaded file, resolved through the
// imageinfo API
func (w *Wikibase) FileSize(ctx context.Context, filename string) (int64, error) {
	body, err := w.get(ctx, url.Values{
		"action": {"query"},
		"titles": {"File:" + filename},
		"prop":   {"imageinfo"},
		"iiprop": {"size"},
	})
	if err != nil {
		return 0, fmt.Errorf("get file info for %s: %w", filename, err)
	}

	var parsed struct {
		Query struct {
			Pages map[string]struct {
				ImageInfo []struct {
					Size int64 `json:"size"`
				} `json:"imageinfo"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("parse file info: %w", err)
	}

	for _, page := range parsed.Query.Pages {
		if len(page.ImageInfo) > 0 && page.ImageInfo[0].Size > 0 {
			return page.ImageInfo[0].Size, nil
		}
	}
	return 0, fmt.Errorf("no file info for %s", filename)
}

// AddClaim adds a statement to an item and returns the new claim's id
func (w *Wikibase) AddClaim(ctx context.Context, qid, property string, value Value, summary string) (string, error) {
	encoded, err := value.MarshalDataValue()
	if err != nil {
		return "", err
	}

	resp, err := w.post(ctx, url.Values{
		"action":   {"wbcreateclaim"},
		"entity":   {qid},
		"property": {property},
		"snaktype": {"value"},
		"value":    {encoded},
		"summary":  {summary},
	})
	if err != nil {
		return "", fmt.Errorf("add %s to %s: %w", property, qid, err)
	}

	var parsed struct {
		Claim struct {
			ID string `json:"id"`
		} `json:"claim"`
	}
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return "", fmt.Errorf("parse claim response: %w", err)
	}
	return parsed.Claim.ID, nil
}

// AddQualifier attaches a qualifier to an existing claim
func (w *Wikibase) AddQualifier(ctx context.Context, claimID, property string, value Value) error {
	encoded, err := value.MarshalDataValue()
	if err != nil {
		return err
	}

	_, err = w.post(ctx, url.Values{
		"action":   {"wbsetqualifier"},
		"claim":    {claimID},
		"property": {property},
		"snaktype": {"value"},
		"value":    {encoded},
	})
	if err != nil {
		return fmt.Errorf("qualify %s with %s: %w", claimID, property, err)
	}
	return nil
}

// AddReference attaches a stated-in reference (source URL plus retrieval
// date) to an existing claim
func (w *Wikibase) AddReference(ctx context.Context, claimID, refURL string) error {
	urlValue, err := StringValue(refURL).MarshalDataValue()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	dateValue, err := DateValue(now.Year(), int(now.Month()), now.Day()).MarshalDataValue()
	if err != nil {
		return err
	}

	snaks, err := json.Marshal(map[string][]map[string]any{
		PropReferenceURL: {{
			"snaktype": "value", "property": PropReferenceURL,
			"datavalue": map[string]any{"type": "string", "value": json.RawMessage(urlValue)},
		}},
		PropRetrieved: {{
			"snaktype": "value", "property": PropRetrieved,
			"datavalue": map[string]any{"type": "time", "value": json.RawMessage(dateValue)},
		}},
	})
	if err != nil {
		return fmt.Errorf("marshal reference snaks: %w", err)
	}

	_, err = w.post(ctx, url.Values{
		"action":    {"wbsetreference"},
		"statement": {claimID},
		"snaks":     {string(snaks)},
	})
	if err != nil {
		return fmt.Errorf("reference %s: %w", claimID, err)
	}
	return nil
}

// get sends a read to the action API and returns the checked response body
func (w *Wikibase) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("format", "json")
	full := w.apiURL + "?" + params.Encode()

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx, full); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if err := checkAPIError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// post sends an authenticated write to the action API, fetching a CSRF token
// on first use
func (w *Wikibase) post(ctx context.Context, params url.Values) ([]byte, error) {
	if w.csrfToken == "" {
		token, err := w.fetchToken(ctx)
		if err != nil {
			return nil, err
		}
		w.csrfToken = token
	}

	params.Set("format", "json")
	params.Set("token", w.csrfToken)
	params.Set("bot", "1")

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx, w.apiURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.apiURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if err := checkAPIError(body); err != nil {
		return nil, err
	}
	return body, nil
}

func (w *Wikibase) fetchToken(ctx context.Context) (string, error) {
	full := w.apiURL + "?" + url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"format": {"json"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed struct {
		Query struct {
			Tokens struct {
				CSRFToken string `json:"csrftoken"`
			} `json:"tokens"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if parsed.Query.Tokens.CSRFToken == "" {
		return "", fmt.Errorf("no csrf token in response")
	}
	return parsed.Query.Tokens.CSRFToken, nil
}

func checkAPIError(body []byte) error {
	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("parse api response: %w", err)
	}
	if envelope.Error != nil {
		return &APIError{Code: envelope.Error.Code, Info: envelope.Error.Info}
	}
	return nil
}

// languageValue is the wire shape of one label or description
type languageValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

func languageValues(values map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(values))
	for lang, value := range values {
		out[lang] = map[string]string{"language": lang, "value": value}
	}
	return out
}

// rawClaim mirrors the wire shape of wbgetclaims
type rawClaim struct {
	ID       string `json:"id"`
	MainSnak struct {
		DataValue struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
	Qualifiers map[string][]struct {
		DataValue struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"qualifiers"`
}

func (r rawClaim) simplify(property string) Claim {
	claim := Claim{ID: r.ID, Property: property}

	switch r.MainSnak.DataValue.Type {
	case "wikibase-entityid":
		var entity struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(r.MainSnak.DataValue.Value, &entity); err == nil {
			claim.TargetQID = entity.ID
		}
	case "string":
		_ = json.Unmarshal(r.MainSnak.DataValue.Value, &claim.StringVal)
	}

	for qualProp, snaks := range r.Qualifiers {
		for _, snak := range snaks {
			if snak.DataValue.Type != "wikibase-entityid" {
				continue
			}
			var entity struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(snak.DataValue.Value, &entity); err == nil {
				if claim.Qualifiers == nil {
					claim.Qualifiers = make(map[string][]string)
				}
				claim.Qualifiers[qualProp] = append(claim.Qualifiers[qualProp], entity.ID)
			}
		}
	}
	return claim
}
