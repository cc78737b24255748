package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/dto"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
)

type ReportInput struct {
	From string
	To   string
}

type GetReport struct {
	repo domain.Repository
	now  Clock
}

func NewGetReport(repo domain.Repository, now Clock) *GetReport {
	return &GetReport{
		repo: repo,
		now:  clockOrSystem(now),
	}
}

// Execute aggregates appointments dated From..To inclusive. Missing bounds
// default to the trailing month ending today.
func (uc *GetReport) Execute(ctx context.Context, in ReportInput) (*dto.ReportDTO, error) {
	from, err := domain.ParseDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDate(in.To)
	if err != nil {
		return nil, err
	}

	today := uc.now()
	if to == "" {
		to = today.Format(domain.DateLayout)
	}
	if from == "" {
		from = monthBefore(today).Format(domain.DateLayout)
	}
	if from > to {
		return nil, httperr.Validation("invalid_range", "from must not be after to.")
	}

	byStatus, err := uc.repo.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byService, err := uc.repo.CountByService(ctx, from, to)
	if err != nil {
		return nil, err
	}

	services, err := uc.repo.ListActiveServices(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.ReportDTO{
		From:      from,
		To:        to,
		Pending:   byStatus[domain.StatusPending],
		Confirmed: byStatus[domain.StatusConfirmed],
		Completed: byStatus[domain.StatusCompleted],
		Cancelled: byStatus[domain.StatusCancelled],
		Services:  make([]dto.ServiceStatDTO, 0, len(services)),
	}
	out.Total = out.Pending + out.Confirmed + out.Completed + out.Cancelled

	for _, s := range services {
		n := byService[s.ID]
		out.Services = append(out.Services, dto.ServiceStatDTO{
			ServiceID: s.ID,
			Name:      s.Name,
			Count:     n,
			Revenue:   s.Price.Mul(decimal.NewFromInt(n)),
		})
	}

	sort.SliceStable(out.Services, func(i, j int) bool {
		a, b := out.Services[i], out.Services[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	return out, nil
}

// monthBefore steps back one calendar month, clamping to the last day of
// the shorter month (Mar 31 -> Feb 28).
func monthBefore(t time.Time) time.Time {
	y, m, d := t.Date()
	if last := time.Date(y, m, 0, 0, 0, 0, 0, t.Location()).Day(); d > last {
		d = last
	}
	return time.Date(y, m-1, d, 0, 0, 0, 0, t.Location())
}
