package services

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioService places automated voice calls through the Twilio REST API.
type TwilioService struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
}

// NewTwilioService creates a new TwilioService.
func NewTwilioService(accountSID, authToken, fromNumber string) *TwilioService {
	return &TwilioService{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    "https://api.twilio.com",
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// CallOTP places a call to the given number. Twilio fetches the voice
// script from scriptURL, which embeds the code as a query parameter.
func (s *TwilioService) CallOTP(toPhone, scriptURL string) error {
	if s.accountSID == "" || s.authToken == "" || s.fromNumber == "" {
		return errors.New("twilio credentials missing")
	}

	form := url.Values{}
	form.Set("To", toPhone)
	form.Set("From", s.fromNumber)
	form.Set("Url", scriptURL)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", s.baseURL, s.accountSID)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio returned status %d, body: %s", resp.StatusCode, string(body))
	}

	return nil
}

type twimlSay struct {
	Language string `xml:"language,attr"`
	Text     string `xml:",chardata"`
}

type twimlPause struct {
	Length int `xml:"length,attr"`
}

type twimlResponse struct {
	XMLName xml.Name   `xml:"Response"`
	First   twimlSay   `xml:"Say"`
	Pause   twimlPause `xml:"Pause"`
	Second  twimlSay   `xml:"Say"`
}

// VoiceOTPScript renders the TwiML document that reads the code aloud
// twice, digit by digit.
func VoiceOTPScript(code string) string {
	spaced := strings.Join(strings.Split(code, ""), " ")

	doc := twimlResponse{
		First:  twimlSay{Language: "en-IN", Text: fmt.Sprintf("Your Abhyaas verification code is %s.", spaced)},
		Pause:  twimlPause{Length: 1},
		Second: twimlSay{Language: "en-IN", Text: fmt.Sprintf("I repeat. Your code is %s.", spaced)},
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return xml.Header + "<Response></Response>"
	}

	return xml.Header + string(out)
}
