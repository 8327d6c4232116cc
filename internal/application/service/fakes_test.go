package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
)

type fakeLoader struct {
	mu          sync.Mutex
	calls       int
	queries     []models.RangeQuery
	invalidated []string
	fresh       []bool
	err         error
	gate        func(call int)
}

func (l *fakeLoader) Load(ctx context.Context, q models.RangeQuery) (*report.Snapshot, error) {
	return l.load(q, false)
}

func (l *fakeLoader) LoadFresh(ctx context.Context, q models.RangeQuery) (*report.Snapshot, error) {
	return l.load(q, true)
}

func (l *fakeLoader) load(q models.RangeQuery, fresh bool) (*report.Snapshot, error) {
	l.mu.Lock()
	l.calls++
	call := l.calls
	l.queries = append(l.queries, q)
	l.fresh = append(l.fresh, fresh)
	gate, err := l.gate, l.err
	l.mu.Unlock()

	if gate != nil {
		gate(call)
	}
	if err != nil {
		return nil, err
	}
	return sampleSnapshot(q, call), nil
}

func (l *fakeLoader) Invalidate(ctx context.Context, companyID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidated = append(l.invalidated, companyID)
	return nil
}

func (l *fakeLoader) freshCalls() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.fresh...)
}

func (l *fakeLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// sampleSnapshot holds two same-day duties for one driver and a fuel bill.
// FetchedAt encodes the call number.
func sampleSnapshot(q models.RangeQuery, call int) *report.Snapshot {
	driver := &models.DriverRef{ID: "D1", Name: "Ravi Kumar", DailyWage: models.Some(600)}
	vehicle := &models.VehicleRef{ID: "V1", CarNumber: "KA01AB1234"}
	return &report.Snapshot{
		Query: q,
		Attendance: []models.Attendance{
			{ID: "A1", Date: "2024-05-01T08:00:00Z", Driver: driver, Vehicle: vehicle},
			{ID: "A2", Date: "2024-05-01T15:00:00Z", Driver: driver, Vehicle: vehicle},
		},
		Fuel: []models.Fuel{
			{ID: "F1", Date: "2024-05-02", Vehicle: &models.VehicleRef{ID: "V2", CarNumber: "KA05XY9999"}, Amount: 900},
		},
		FetchedAt: time.Unix(int64(call), 0).UTC(),
	}
}

type deleteCall struct {
	kind models.Kind
	id   string
}

type fakeDeleter struct {
	mu    sync.Mutex
	calls []deleteCall
	err   error
}

func (d *fakeDeleter) Delete(ctx context.Context, kind models.Kind, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, deleteCall{kind: kind, id: id})
	return d.err
}

type fakeExportRepo struct {
	mu   sync.Mutex
	logs []*models.ExportLog
	err  error
}

func (r *fakeExportRepo) Create(ctx context.Context, log *models.ExportLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeExportRepo) ListByCompany(ctx context.Context, companyID string, limit int) ([]*models.ExportLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ExportLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].CompanyID == companyID {
			out = append(out, r.logs[i])
		}
	}
	return out, nil
}

func (r *fakeExportRepo) GetByExportID(ctx context.Context, exportID string) (*models.ExportLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, l := range r.logs {
		if l.ExportID == exportID {
			return l, nil
		}
	}
	return nil, nil
}

type fakeArchive struct {
	saved map[string][]byte
	err   error
}

func (a *fakeArchive) Save(companyID string, t time.Time, fileName string, content []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.saved == nil {
		a.saved = make(map[string][]byte)
	}
	path := "/archive/" + companyID + "/" + t.Format("2006-01") + "/" + fileName
	a.saved[path] = content
	return path, nil
}

func (a *fakeArchive) Load(path string) ([]byte, error) {
	content, ok := a.saved[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return content, nil
}

var errBackendDown = errors.New("backend down")
