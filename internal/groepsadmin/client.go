package groepsadmin

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 30 * time.Second

	serviceNS = "http://webservice.groepsadmin.scoutsengidsenvlaanderen.be/"
	soapNS    = "http://schemas.xmlsoap.org/soap/envelope/"
)

// Client implements Directory against the groepsadmin SOAP webservice.
// Every call is bounded by the configured timeout; an expired deadline
// surfaces as an error like any other transport failure. No retries.
type Client struct {
	endpoint   string
	group      string
	httpClient *http.Client
}

// NewClient creates a groepsadmin webservice client for the given endpoint,
// authenticating under the given organisational group.
func NewClient(endpoint, group string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		endpoint: endpoint,
		group:    group,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// request envelope types. The webservice speaks rpc style SOAP 1.1.
type requestEnvelope struct {
	XMLName   xml.Name    `xml:"soapenv:Envelope"`
	SoapNS    string      `xml:"xmlns:soapenv,attr"`
	ServiceNS string      `xml:"xmlns:gad,attr"`
	Body      requestBody `xml:"soapenv:Body"`
}

type requestBody struct {
	Login *loginRequest  `xml:"gad:login,omitempty"`
	Lid   *memberRequest `xml:"gad:lidGegevensV3,omitempty"`
}

type loginRequest struct {
	Username string `xml:"username"`
	Password string `xml:"paswoord"`
	Group    string `xml:"groep"`
}

type memberRequest struct {
	Lid        string `xml:"lid"`
	WithGroups bool   `xml:"metGebruikersgroepen"`
}

type loginResponse struct {
	XMLName xml.Name `xml:"Envelope"`
	Fault   *Fault   `xml:"Body>Fault"`
	Return  string   `xml:"Body>loginResponse>return"`
}

type memberResponse struct {
	XMLName xml.Name   `xml:"Envelope"`
	Fault   *Fault     `xml:"Body>Fault"`
	Return  *memberXML `xml:"Body>lidGegevensV3Response>return"`
}

type memberXML struct {
	ID        string     `xml:"id"`
	FirstName string     `xml:"voornaam"`
	LastName  string     `xml:"naam"`
	Email     string     `xml:"emailadres"`
	Groups    []groupXML `xml:"gebruikersgroepen>gebruikersgroep"`
}

type groupXML struct {
	ID   string `xml:"id"`
	Name string `xml:"naam"`
	// ManageRight is present (any content) when the member manages the group.
	ManageRight *string `xml:"beheersrecht"`
}

// Login verifies the credentials against the webservice. Wrong credentials
// come back as an empty member id, not an error.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	body := requestBody{
		Login: &loginRequest{
			Username: login,
			Password: password,
			Group:    c.group,
		},
	}

	var resp loginResponse
	if err := c.call(ctx, "login", body, &resp); err != nil {
		return "", err
	}

	if resp.Fault != nil {
		return "", resp.Fault
	}

	return resp.Return, nil
}

// Member fetches a member profile including group memberships.
func (c *Client) Member(ctx context.Context, idOrLogin string) (*Member, error) {
	body := requestBody{
		Lid: &memberRequest{
			Lid:        idOrLogin,
			WithGroups: true,
		},
	}

	var resp memberResponse
	if err := c.call(ctx, "lidGegevensV3", body, &resp); err != nil {
		return nil, err
	}

	if resp.Fault != nil {
		return nil, resp.Fault
	}

	if resp.Return == nil {
		return nil, ErrEmptyResponse
	}

	member := &Member{
		ID:        resp.Return.ID,
		FirstName: resp.Return.FirstName,
		LastName:  resp.Return.LastName,
		Email:     resp.Return.Email,
		Groups:    make([]Group, 0, len(resp.Return.Groups)),
	}

	for _, g := range resp.Return.Groups {
		member.Groups = append(member.Groups, Group{
			ID:          g.ID,
			Name:        g.Name,
			ManageRight: g.ManageRight != nil,
		})
	}

	return member, nil
}

// call posts one SOAP request and decodes the response envelope into out.
func (c *Client) call(ctx context.Context, action string, body requestBody, out interface{}) error {
	envelope := requestEnvelope{
		SoapNS:    soapNS,
		ServiceNS: serviceNS,
		Body:      body,
	}

	payload, err := xml.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	payload = append([]byte(xml.Header), payload...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", serviceNS+action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("groepsadmin %s call failed: %w", action, err)
	}

	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close groepsadmin response body")
		}
	}()

	// SOAP faults arrive with status 500 and still carry an envelope, so
	// only undecodable statuses are rejected outright.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError {
		return fmt.Errorf("groepsadmin %s call returned status %d", action, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}

	if len(raw) == 0 {
		return ErrEmptyResponse
	}

	if err := xml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	return nil
}
