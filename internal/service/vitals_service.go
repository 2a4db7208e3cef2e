package service

import (
	"context"
	"time"

	"github.com/lighter/backend/internal/model"
	"github.com/lighter/backend/internal/repository"
)

// Accepted ranges for vitals readings. Values outside these bounds are almost
// certainly entry mistakes, not physiology.
const (
	minTemperatureF = 90.0
	maxTemperatureF = 110.0
	minPulse        = 20
	maxPulse        = 250
	minWeightKg     = 20.0
	maxWeightKg     = 400.0
	minMood         = 1
	maxMood         = 5
)

// movingAvgWindow is the trailing window for chart smoothing, in days.
const movingAvgWindow = 7

// ChartPoint is one day on a progress chart. Value is nil for days without an
// entry; MovingAvg is nil until at least one value falls inside the window.
type ChartPoint struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	Value     *float64 `json:"value"`
	MovingAvg *float64 `json:"moving_avg"`
}

// ChartSeries is the response shape for GET /api/charts/vitals.
type ChartSeries struct {
	Metric string       `json:"metric"`
	Days   int          `json:"days"`
	Points []ChartPoint `json:"points"`
}

// VitalsService defines daily vitals tracking and chart aggregation.
type VitalsService interface {
	// Record stores the day's entry for the user, replacing an existing entry
	// for the same date. EntryDate is normalized to midnight UTC.
	Record(ctx context.Context, userID string, entry *model.VitalsEntry) error

	// List returns entries in [from, to], oldest first.
	List(ctx context.Context, userID string, from, to time.Time) ([]*model.VitalsEntry, error)

	// Delete removes the user's own entry. ErrNotFound when it does not exist
	// or belongs to someone else.
	Delete(ctx context.Context, userID, id string) error

	// ChartSeries returns per-day points for the trailing `days` window with a
	// 7-day moving average. metric is temperature, pulse, weight or mood.
	ChartSeries(ctx context.Context, userID, metric string, days int) (*ChartSeries, error)
}

// vitalsServiceImpl is the production implementation of VitalsService.
type vitalsServiceImpl struct {
	repo repository.VitalsRepository
	now  func() time.Time
}

// NewVitalsService creates a VitalsService backed by the given repository.
func NewVitalsService(repo repository.VitalsRepository) VitalsService {
	return &vitalsServiceImpl{repo: repo, now: time.Now}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Record validates and upserts the entry.
func (s *vitalsServiceImpl) Record(ctx context.Context, userID string, entry *model.VitalsEntry) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if entry.EntryDate.IsZero() {
		return &ValidationError{Field: "entry_date", Reason: "is required"}
	}
	entry.EntryDate = midnightUTC(entry.EntryDate)
	if entry.EntryDate.After(midnightUTC(s.now())) {
		return &ValidationError{Field: "entry_date", Reason: "cannot be in the future"}
	}
	if entry.Temperature == nil && entry.Pulse == nil && entry.WeightKg == nil && entry.Mood == nil {
		return &ValidationError{Field: "entry", Reason: "needs at least one reading"}
	}
	if t := entry.Temperature; t != nil && (*t < minTemperatureF || *t > maxTemperatureF) {
		return &ValidationError{Field: "temperature", Reason: "must be between 90 and 110 °F"}
	}
	if p := entry.Pulse; p != nil && (*p < minPulse || *p > maxPulse) {
		return &ValidationError{Field: "pulse", Reason: "must be between 20 and 250 bpm"}
	}
	if w := entry.WeightKg; w != nil && (*w < minWeightKg || *w > maxWeightKg) {
		return &ValidationError{Field: "weight_kg", Reason: "must be between 20 and 400 kg"}
	}
	if m := entry.Mood; m != nil && (*m < minMood || *m > maxMood) {
		return &ValidationError{Field: "mood", Reason: "must be between 1 and 5"}
	}

	entry.UserID = userID
	return s.repo.Upsert(ctx, entry)
}

// List returns entries in [from, to], oldest first.
func (s *vitalsServiceImpl) List(ctx context.Context, userID string, from, to time.Time) ([]*model.VitalsEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByUser(ctx, userID, model.VitalsRange{From: midnightUTC(from), To: midnightUTC(to)})
}

// Delete removes the user's own entry.
func (s *vitalsServiceImpl) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if err == repository.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func metricValue(e *model.VitalsEntry, metric string) *float64 {
	switch metric {
	case "temperature":
		return e.Temperature
	case "pulse":
		if e.Pulse == nil {
			return nil
		}
		v := float64(*e.Pulse)
		return &v
	case "weight":
		return e.WeightKg
	case "mood":
		if e.Mood == nil {
			return nil
		}
		v := float64(*e.Mood)
		return &v
	}
	return nil
}

// ChartSeries builds the per-day series with a trailing 7-day moving average.
func (s *vitalsServiceImpl) ChartSeries(ctx context.Context, userID, metric string, days int) (*ChartSeries, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	switch metric {
	case "temperature", "pulse", "weight", "mood":
	default:
		return nil, &ValidationError{Field: "metric", Reason: "must be temperature, pulse, weight or mood"}
	}
	if days < 1 || days > 365 {
		return nil, &ValidationError{Field: "days", Reason: "must be between 1 and 365"}
	}

	today := midnightUTC(s.now())
	from := today.AddDate(0, 0, -(days - 1))
	entries, err := s.repo.ListByUser(ctx, userID, model.VitalsRange{From: from, To: today})
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*float64, len(entries))
	for _, e := range entries {
		byDate[e.EntryDate.Format("2006-01-02")] = metricValue(e, metric)
	}

	series := &ChartSeries{Metric: metric, Days: days, Points: make([]ChartPoint, 0, days)}
	values := make([]*float64, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		key := date.Format("2006-01-02")
		values[i] = byDate[key]

		var avg *float64
		sum, n := 0.0, 0
		for j := i; j >= 0 && j > i-movingAvgWindow; j-- {
			if values[j] != nil {
				sum += *values[j]
				n++
			}
		}
		if n > 0 {
			a := sum / float64(n)
			avg = &a
		}

		series.Points = append(series.Points, ChartPoint{Date: key, Value: values[i], MovingAvg: avg})
	}
	return series, nil
}
