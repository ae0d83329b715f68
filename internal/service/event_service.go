package service

import (
	"context"
	"log/slog"
	"mime/multipart"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
)

type EventService struct {
	events   *mysql.EventRepository
	uploader *pkg.Uploader
	policy   pkg.UploadPolicy
	maxMedia int
}

func NewEventService(events *mysql.EventRepository, uploader *pkg.Uploader, maxImageBytes int64, maxMedia int) *EventService {
	return &EventService{
		events:   events,
		uploader: uploader,
		policy:   pkg.UploadPolicy{MaxBytes: maxImageBytes, AllowVideo: true},
		maxMedia: maxMedia,
	}
}

// EventView 媒体按类型拆成 images 与 videos
type EventView struct {
	*model.Event
	Images    []model.EventMedia `json:"images"`
	Videos    []model.EventMedia `json:"videos"`
	Attendees []uint64           `json:"attendees"`
}

func newEventView(e *model.Event, attendees []uint64) EventView {
	v := EventView{
		Event:     e,
		Images:    []model.EventMedia{},
		Videos:    []model.EventMedia{},
		Attendees: attendees,
	}
	if v.Attendees == nil {
		v.Attendees = []uint64{}
	}
	for _, m := range e.Media {
		if m.Kind == string(pkg.MediaVideo) {
			v.Videos = append(v.Videos, m)
		} else {
			v.Images = append(v.Images, m)
		}
	}
	return v
}

type CreateEventInput struct {
	Title            string
	Description      string
	Date             time.Time
	Location         string
	AllowsAttendance bool
	Media            []*multipart.FileHeader
}

type UpdateEventInput struct {
	Title            *string
	Description      *string
	Date             *time.Time
	Location         *string
	AllowsAttendance *bool
	Media            []*multipart.FileHeader
}

func (s *EventService) checkMediaCount(n int) error {
	if s.maxMedia > 0 && n > s.maxMedia {
		return pkg.ErrValidation.With("too many media files")
	}
	return nil
}

func toEventMedia(uploaded []pkg.UploadedMedia) []model.EventMedia {
	out := make([]model.EventMedia, 0, len(uploaded))
	for _, m := range uploaded {
		out = append(out, model.EventMedia{Kind: string(m.Kind), URL: m.URL, CloudinaryID: m.PublicID})
	}
	return out
}

func mediaIDs(media []model.EventMedia) []string {
	ids := make([]string, 0, len(media))
	for _, m := range media {
		ids = append(ids, m.CloudinaryID)
	}
	return ids
}

func (s *EventService) Create(ctx context.Context, creatorID uint64, in CreateEventInput) (*EventView, error) {
	if err := s.checkMediaCount(len(in.Media)); err != nil {
		return nil, err
	}
	uploaded, err := s.uploader.UploadAll(ctx, in.Media, s.policy)
	if err != nil {
		return nil, err
	}
	e := &model.Event{
		Title:            in.Title,
		Description:      in.Description,
		Date:             in.Date,
		Location:         in.Location,
		AllowsAttendance: in.AllowsAttendance,
		CreatedBy:        creatorID,
		Media:            toEventMedia(uploaded),
	}
	if err = s.events.Create(ctx, e); err != nil {
		ids := mediaIDs(e.Media)
		if len(ids) > 0 {
			slog.Warn("event create failed after media upload", "public_ids", ids, "err", err)
			s.uploader.Discard(ctx, ids...)
		}
		return nil, err
	}
	v := newEventView(e, nil)
	return &v, nil
}

// List 按活动日期升序
func (s *EventService) List(ctx context.Context) ([]EventView, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	attendees, err := s.events.Attendees(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]EventView, 0, len(events))
	for i := range events {
		out = append(out, newEventView(&events[i], attendees[events[i].ID]))
	}
	return out, nil
}

// Update 新上传的媒体追加到已有媒体之后
func (s *EventService) Update(ctx context.Context, id uint64, in UpdateEventInput) (*EventView, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.checkMediaCount(len(in.Media)); err != nil {
		return nil, err
	}
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.AllowsAttendance != nil {
		e.AllowsAttendance = *in.AllowsAttendance
	}

	uploaded, err := s.uploader.UploadAll(ctx, in.Media, s.policy)
	if err != nil {
		return nil, err
	}
	added := toEventMedia(uploaded)
	if err = s.events.Update(ctx, e, added); err != nil {
		if ids := mediaIDs(added); len(ids) > 0 {
			slog.Warn("event update failed after media upload", "event_id", id, "public_ids", ids, "err", err)
			s.uploader.Discard(ctx, ids...)
		}
		return nil, err
	}
	attendees, err := s.events.Attendees(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	v := newEventView(e, attendees[id])
	return &v, nil
}

func (s *EventService) Delete(ctx context.Context, id uint64) error {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.uploader.Discard(ctx, mediaIDs(e.Media)...)
	return nil
}
