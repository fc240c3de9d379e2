package services

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// sendSMS delivers one message through the Twilio REST API. Callers only
// reach this when all three Twilio credentials are configured.
func (n *Notifier) sendSMS(to, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json",
		n.cfg.TwilioAccountSID)

	// Prepare the form data
	data := url.Values{}
	data.Set("To", to)
	data.Set("From", n.cfg.TwilioFromNumber)
	data.Set("Body", message)

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(n.cfg.TwilioAccountSID, n.cfg.TwilioAuthToken)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send SMS: status code %d", resp.StatusCode)
	}

	return nil
}
