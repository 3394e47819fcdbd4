package unisis

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"unigate-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Trip is one row of the portal's trip listing. The portal's own
// business rules (eligibility, quotas) are not reimplemented here;
// rows and outcome messages are proxied as the portal renders them.
type Trip struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	Quota   string `json:"quota"`
	Applied bool   `json:"applied"`
}

type TripAction string

const (
	TripApply    TripAction = "basvur"
	TripWithdraw TripAction = "iptal"
)

var ErrTripNotFound = errors.New("trip not present on portal page")

// ParseTrips extracts the structured trip rows from the trips page.
func ParseTrips(input string) ([]Trip, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrMalformedInput
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	var trips []Trip
	doc.Find("tr[data-gezi]").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		trips = append(trips, Trip{
			ID:      row.AttrOr("data-gezi", ""),
			Name:    htmlutil.CellText(cells.Eq(0)),
			Date:    htmlutil.CellText(cells.Eq(1)),
			Quota:   htmlutil.CellText(cells.Eq(2)),
			Applied: row.HasClass("basvurildi"),
		})
	})

	return trips, nil
}

// TripActionForm locates a trip's row on the page and rebuilds the
// form the portal expects for the given action: every hidden input of
// the row's form (anti-forgery token included) plus the action verb.
// It returns the form's post path alongside the values.
func TripActionForm(input, tripID string, action TripAction) (string, url.Values, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	row := doc.Find(fmt.Sprintf(`tr[data-gezi=%q]`, tripID)).First()
	if row.Length() == 0 {
		return "", nil, ErrTripNotFound
	}
	formSel := row.Find("form").First()
	if formSel.Length() == 0 {
		return "", nil, ErrTripNotFound
	}

	form := url.Values{}
	formSel.Find("input[type=hidden]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		form.Set(name, input.AttrOr("value", ""))
	})
	form.Set("islem", string(action))

	path := formSel.AttrOr("action", TripsPath)
	return path, form, nil
}

// ParseActionOutcome pulls the portal's own outcome banner out of the
// response to a trip action post. Empty string when the portal showed
// none.
func ParseActionOutcome(input string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return ""
	}
	return htmlutil.CellText(doc.Find("div.alert").First())
}
