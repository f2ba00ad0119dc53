package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mintbay/nftauction/internal/auction/domain"
)

// ScheduleEntryDTO is one calendar entry in the schedule projection.
type ScheduleEntryDTO struct {
	AuctionID uuid.UUID `json:"auction_id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ScheduleDTO is the resolver's view, shaped for the countdown UI.
type ScheduleDTO struct {
	Active            *ScheduleEntryDTO  `json:"active,omitempty"`
	Next              *ScheduleEntryDTO  `json:"next,omitempty"`
	Upcoming          []ScheduleEntryDTO `json:"upcoming"`
	HasOverlap        bool               `json:"has_overlap"`
	BufferedNextStart *time.Time         `json:"buffered_next_start,omitempty"`
}

// GetScheduleUseCase resolves the auction calendar at the current instant.
type GetScheduleUseCase struct {
	source DefinitionSource
	now    func() time.Time
}

func NewGetScheduleUseCase(source DefinitionSource, now func() time.Time) *GetScheduleUseCase {
	if now == nil {
		now = time.Now
	}
	return &GetScheduleUseCase{source: source, now: now}
}

func (uc *GetScheduleUseCase) Execute(ctx context.Context) (*ScheduleDTO, error) {
	defs, err := uc.source.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	sched := domain.Resolve(defs, uc.now())
	dto := &ScheduleDTO{
		Upcoming:   make([]ScheduleEntryDTO, 0, len(sched.Upcoming)),
		HasOverlap: sched.HasOverlap,
	}
	if sched.Active != nil {
		dto.Active = entryDTO(*sched.Active)
	}
	if sched.Next != nil {
		dto.Next = entryDTO(*sched.Next)
		t := sched.BufferedNextStart
		dto.BufferedNextStart = &t
	}
	for _, ev := range sched.Upcoming {
		dto.Upcoming = append(dto.Upcoming, *entryDTO(ev))
	}
	return dto, nil
}

func entryDTO(def domain.AuctionDefinition) *ScheduleEntryDTO {
	return &ScheduleEntryDTO{
		AuctionID: def.ID,
		Title:     def.Title,
		Artist:    def.Artist,
		StartTime: def.StartTime,
		EndTime:   def.EndTime,
	}
}
