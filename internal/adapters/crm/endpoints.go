package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"dncsweep/internal/core/match"
	applydom "dncsweep/internal/services/apply/domain"
)

// ListCompanies returns one roster page and the cursor for the next.
// Implements the screen roster port
func (c *Client) ListCompanies(ctx context.Context, after string, limit int) ([]match.Company, string, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("properties", c.opts.CompanyNameProp+","+c.opts.CompanyDomainProp)
	if after != "" {
		q.Set("after", after)
	}

	var pg page
	if err := c.do(ctx, http.MethodGet, "/companies?"+q.Encode(), nil, &pg); err != nil {
		return nil, "", err
	}

	out := make([]match.Company, 0, len(pg.Results))
	for _, o := range pg.Results {
		out = append(out, match.Company{
			ID:     o.ID,
			Name:   o.Properties[c.opts.CompanyNameProp],
			Domain: o.Properties[c.opts.CompanyDomainProp],
		})
	}
	return out, pg.nextAfter(), nil
}

// GetCompany fetches one company with its name, domain, and status properties
func (c *Client) GetCompany(ctx context.Context, id string) (match.Company, string, error) {
	q := url.Values{}
	q.Set("properties", c.opts.CompanyNameProp+","+c.opts.CompanyDomainProp+","+c.opts.CompanyStatusProp)

	var o object
	if err := c.do(ctx, http.MethodGet, "/companies/"+url.PathEscape(id)+"?"+q.Encode(), nil, &o); err != nil {
		return match.Company{}, "", err
	}
	comp := match.Company{
		ID:     o.ID,
		Name:   o.Properties[c.opts.CompanyNameProp],
		Domain: o.Properties[c.opts.CompanyDomainProp],
	}
	return comp, o.Properties[c.opts.CompanyStatusProp], nil
}

// GetCompanyStatus implements the apply record store port
func (c *Client) GetCompanyStatus(ctx context.Context, id string) (string, error) {
	_, status, err := c.GetCompany(ctx, id)
	return status, err
}

// UpdateCompanyProperty patches one property on a company
func (c *Client) UpdateCompanyProperty(ctx context.Context, id, prop, value string) error {
	body := propertyPatch{Properties: map[string]string{prop: value}}
	return c.do(ctx, http.MethodPatch, "/companies/"+url.PathEscape(id), body, nil)
}

// UpdateCompanyStatus implements the apply record store port
func (c *Client) UpdateCompanyStatus(ctx context.Context, id, value string) error {
	return c.UpdateCompanyProperty(ctx, id, c.opts.CompanyStatusProp, value)
}

// ListCompanyContactIDs returns the ids of all contacts associated with a
// company, following the association cursor to the end
func (c *Client) ListCompanyContactIDs(ctx context.Context, companyID string) ([]string, error) {
	var ids []string
	after := ""
	for {
		q := url.Values{}
		q.Set("limit", "100")
		if after != "" {
			q.Set("after", after)
		}
		var pg page
		path := "/companies/" + url.PathEscape(companyID) + "/contacts?" + q.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, &pg); err != nil {
			return nil, err
		}
		for _, o := range pg.Results {
			ids = append(ids, o.ID)
		}
		after = pg.nextAfter()
		if after == "" {
			return ids, nil
		}
	}
}

// BatchReadContacts implements the apply record store port
func (c *Client) BatchReadContacts(ctx context.Context, ids []string) ([]applydom.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	req := batchReadRequest{IDs: ids, Properties: []string{c.opts.ContactStatusProp}}
	var pg page
	if err := c.do(ctx, http.MethodPost, "/contacts/batch/read", req, &pg); err != nil {
		return nil, err
	}
	out := make([]applydom.Contact, 0, len(pg.Results))
	for _, o := range pg.Results {
		out = append(out, applydom.Contact{ID: o.ID, Status: o.Properties[c.opts.ContactStatusProp]})
	}
	return out, nil
}

// BatchUpdateContactStatus implements the apply record store port
func (c *Client) BatchUpdateContactStatus(ctx context.Context, ids []string, value string) error {
	if len(ids) == 0 {
		return nil
	}
	req := batchUpdateRequest{Inputs: make([]batchInput, 0, len(ids))}
	for _, id := range ids {
		req.Inputs = append(req.Inputs, batchInput{
			ID:         id,
			Properties: map[string]string{c.opts.ContactStatusProp: value},
		})
	}
	return c.do(ctx, http.MethodPost, "/contacts/batch/update", req, nil)
}
