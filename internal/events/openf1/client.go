package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/f1-betting-poc/internal/events/source"
)

// Adapter consome a API pública OpenF1 e normaliza sessions/drivers/position
// pro modelo do event-service. As odds são sabor do provider: inteiros
// sorteados em [2,5) a cada fetch; o core de apostas só congela o valor.
type Adapter struct {
	log     *zap.Logger
	baseURL string
	http    *http.Client
}

func New(log *zap.Logger, baseURL string) *Adapter {
	return &Adapter{
		log:     log,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (a *Adapter) Event(ctx context.Context, eventID int64) (source.EventDetails, error) {
	var sessions []sessionRaw
	if err := a.getJSON(ctx, "/sessions?session_key="+strconv.FormatInt(eventID, 10), &sessions); err != nil {
		return source.EventDetails{}, err
	}
	if len(sessions) == 0 {
		return source.EventDetails{}, fmt.Errorf("%w: session %d", source.ErrNotFound, eventID)
	}

	ed := toEventDetails(sessions[0])
	drivers, err := a.driversForSession(ctx, sessions[0].SessionKey)
	if err != nil {
		return source.EventDetails{}, err
	}
	ed.Drivers = drivers
	return ed, nil
}

func (a *Adapter) Events(ctx context.Context, f source.Filter) ([]source.EventDetails, error) {
	q := url.Values{}
	if f.SessionType != "" {
		q.Set("session_type", f.SessionType)
	}
	if f.Country != "" {
		q.Set("country_name", f.Country)
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}

	var sessions []sessionRaw
	if err := a.getJSON(ctx, "/sessions?"+q.Encode(), &sessions); err != nil {
		return nil, err
	}

	out := make([]source.EventDetails, 0, len(sessions))
	for _, s := range sessions {
		ed := toEventDetails(s)
		drivers, err := a.driversForSession(ctx, s.SessionKey)
		if err != nil {
			return nil, err
		}
		ed.Drivers = drivers
		out = append(out, ed)
	}
	return out, nil
}

// Winner busca a posição 1 da session. Sem dados de posição ainda,
// a corrida não terminou.
func (a *Adapter) Winner(ctx context.Context, eventID int64) (source.EventResult, error) {
	var positions []positionRaw
	if err := a.getJSON(ctx, "/position?session_key="+strconv.FormatInt(eventID, 10), &positions); err != nil {
		return source.EventResult{}, err
	}

	for _, p := range positions {
		if p.Position == 1 {
			return source.EventResult{
				EventID:         eventID,
				WinningDriverID: p.DriverNumber,
				Finished:        true,
			}, nil
		}
	}
	return source.EventResult{EventID: eventID, Finished: false}, nil
}

func (a *Adapter) driversForSession(ctx context.Context, sessionKey int64) ([]source.Driver, error) {
	var raw []driverRaw
	if err := a.getJSON(ctx, "/drivers?session_key="+strconv.FormatInt(sessionKey, 10), &raw); err != nil {
		return nil, err
	}

	drivers := make([]source.Driver, 0, len(raw))
	for _, d := range raw {
		drivers = append(drivers, source.Driver{
			DriverID: d.DriverNumber,
			FullName: d.FullName,
			TeamName: d.TeamName,
			Odds:     2 + rand.Intn(3), // {2,3,4}
		})
	}
	return drivers, nil
}

func (a *Adapter) getJSON(ctx context.Context, path string, dst any) error {
	fullURL := a.baseURL + path
	a.log.Debug("calling openf1", zap.String("url", fullURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}

	res, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", source.ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("%w: openf1 http %d", source.ErrUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", source.ErrUnavailable, err)
	}
	return nil
}

func toEventDetails(s sessionRaw) source.EventDetails {
	return source.EventDetails{
		EventID:   s.SessionKey,
		EventName: s.SessionName,
		Country:   s.CountryName,
		Year:      s.Year,
		DateStart: s.DateStart,
	}
}
