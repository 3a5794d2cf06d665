// Package storetest provides an in-memory repository.Store for service and
// handler tests.
package storetest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
)

type link struct {
	event, participant int64
}

type state struct {
	events       map[int64]model.Event
	participants map[int64]model.Participant
	locations    map[int64]model.Location
	links        map[link]struct{}
	feedback     map[int64][]model.Row
	sponsors     map[int64][]model.Row
	lists        map[model.AccessList]map[string]struct{}
	nextID       int64
}

func (s state) clone() state {
	c := s
	c.events = maps.Clone(s.events)
	c.participants = maps.Clone(s.participants)
	c.locations = maps.Clone(s.locations)
	c.links = maps.Clone(s.links)
	c.feedback = maps.Clone(s.feedback)
	c.sponsors = maps.Clone(s.sponsors)
	c.lists = make(map[model.AccessList]map[string]struct{}, len(s.lists))
	for k, v := range s.lists {
		c.lists[k] = maps.Clone(v)
	}
	return c
}

// Store is a mutex-guarded in-memory Store. WithTx serialises transactions
// and restores the previous state when fn fails; it must not be nested.
type Store struct {
	txMu sync.Mutex

	mu       sync.Mutex
	st       state
	failures map[string]error
	calls    []string
}

var _ repository.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		st: state{
			events:       map[int64]model.Event{},
			participants: map[int64]model.Participant{},
			locations:    map[int64]model.Location{},
			links:        map[link]struct{}{},
			feedback:     map[int64][]model.Row{},
			sponsors:     map[int64][]model.Row{},
			lists: map[model.AccessList]map[string]struct{}{
				model.Blacklist: {},
				model.Whitelist: {},
			},
		},
		failures: map[string]error{},
	}
}

// Fail makes every later call of the named method return err.
func (s *Store) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

// Calls returns the names of the methods invoked so far, in order.
func (s *Store) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// enter locks the store and records the call. The caller must unlock.
func (s *Store) enter(method string) error {
	s.mu.Lock()
	s.calls = append(s.calls, method)
	return s.failures[method]
}

// id hands out identities from one counter shared by every table. Explicit
// ids move the counter past them, matching the sequence realignment the
// repository performs after an explicit-id insert.
func (s *Store) id(explicit *int64) int64 {
	if explicit != nil {
		if *explicit > s.st.nextID {
			s.st.nextID = *explicit
		}
		return *explicit
	}
	s.st.nextID++
	return s.st.nextID
}

// WithTx implements repository.Store.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Seed helpers. They bypass failure injection and call recording.

// SeedLocation stores l, assigning an id when l.ID is zero.
func (s *Store) SeedLocation(l model.Location) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id(nil)
	} else {
		s.id(&l.ID)
	}
	s.st.locations[l.ID] = l
	return l.ID
}

// SeedEvent stores e, assigning an id when e.ID is zero.
func (s *Store) SeedEvent(e model.Event) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id(nil)
	} else {
		s.id(&e.ID)
	}
	s.st.events[e.ID] = e
	return e.ID
}

// SeedParticipant stores p and links it to eventIDs.
func (s *Store) SeedParticipant(p model.Participant, eventIDs ...int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id(nil)
	}
	if p.Status == "" {
		p.Status = model.StatusRegistered
	}
	s.st.participants[p.ID] = p
	for _, e := range eventIDs {
		s.st.links[link{e, p.ID}] = struct{}{}
	}
	return p.ID
}

// SeedFeedback appends a feedback row for eventID.
func (s *Store) SeedFeedback(eventID int64, row model.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.feedback[eventID] = append(s.st.feedback[eventID], row)
}

// SeedSponsor appends a sponsor row for eventID.
func (s *Store) SeedSponsor(eventID int64, row model.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sponsors[eventID] = append(s.st.sponsors[eventID], row)
}

// SeedAccess puts ip on list.
func (s *Store) SeedAccess(list model.AccessList, ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.lists[list][ip] = struct{}{}
}

// Inspection helpers.

// Event returns the stored event with id.
func (s *Store) Event(id int64) (model.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.st.events[id]
	return e, ok
}

// Participant returns the stored participant with id.
func (s *Store) Participant(id int64) (model.Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.participants[id]
	return p, ok
}

// Location returns the stored location with id.
func (s *Store) Location(id int64) (model.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.st.locations[id]
	return l, ok
}

// Links returns the participant ids associated with eventID.
func (s *Store) Links(eventID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for l := range s.st.links {
		if l.event == eventID {
			ids = append(ids, l.participant)
		}
	}
	slices.Sort(ids)
	return ids
}

// InList reports whether ip is on list.
func (s *Store) InList(list model.AccessList, ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.st.lists[list][ip]
	return ok
}

func sortedValues[T any](m map[int64]T, keep func(T) bool) []T {
	keys := slices.Sorted(maps.Keys(m))
	var out []T
	for _, k := range keys {
		if keep == nil || keep(m[k]) {
			out = append(out, m[k])
		}
	}
	return out
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	if err := s.enter("ListEvents"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return sortedValues(s.st.events, nil), nil
}

func (s *Store) EventsByDate(ctx context.Context, date string) ([]model.Event, error) {
	if err := s.enter("EventsByDate"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return sortedValues(s.st.events, func(e model.Event) bool { return e.EventDate == date }), nil
}

func (s *Store) EventLocation(ctx context.Context, eventID int64) (int64, error) {
	if err := s.enter("EventLocation"); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	e, ok := s.st.events[eventID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return e.LocationID, nil
}

func (s *Store) CreateEvent(ctx context.Context, req model.CreateEventRequest) (int64, error) {
	if err := s.enter("CreateEvent"); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	if req.EventID != nil {
		if _, ok := s.st.events[*req.EventID]; ok {
			return 0, fmt.Errorf("insert event: %w", repository.ErrDuplicate)
		}
	}
	if _, ok := s.st.locations[*req.LocationID]; !ok {
		return 0, fmt.Errorf("insert event: %w", repository.ErrReferenced)
	}
	id := s.id(req.EventID)
	s.st.events[id] = model.Event{
		ID:            id,
		Name:          req.Name,
		EventDate:     req.EventDate,
		Description:   req.Description,
		OrganizerName: req.OrganizerName,
		LocationID:    *req.LocationID,
	}
	return id, nil
}

func (s *Store) UpdateEvent(ctx context.Context, id int64, req model.UpdateEventRequest) error {
	if err := s.enter("UpdateEvent"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if req == (model.UpdateEventRequest{}) {
		return repository.ErrNoChanges
	}
	e, ok := s.st.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.EventDate != nil {
		e.EventDate = *req.EventDate
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.OrganizerName != nil {
		e.OrganizerName = req.OrganizerName
	}
	if req.LocationID != nil {
		if _, ok := s.st.locations[*req.LocationID]; !ok {
			return fmt.Errorf("update event: %w", repository.ErrReferenced)
		}
		e.LocationID = *req.LocationID
	}
	s.st.events[id] = e
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.enter("DeleteEvent"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.st.events[id]; !ok {
		return repository.ErrNotFound
	}
	for l := range s.st.links {
		if l.event == id {
			return fmt.Errorf("delete event: %w", repository.ErrReferenced)
		}
	}
	delete(s.st.events, id)
	delete(s.st.feedback, id)
	delete(s.st.sponsors, id)
	return nil
}

func (s *Store) CountEventsAtLocation(ctx context.Context, locationID int64) (int, error) {
	if err := s.enter("CountEventsAtLocation"); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.st.events {
		if e.LocationID == locationID {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	if err := s.enter("ListParticipants"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return sortedValues(s.st.participants, nil), nil
}

func (s *Store) ParticipantsByStatus(ctx context.Context, status string) ([]model.Participant, error) {
	if err := s.enter("ParticipantsByStatus"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return sortedValues(s.st.participants, func(p model.Participant) bool { return p.Status == status }), nil
}

func (s *Store) CreateParticipant(ctx context.Context, req model.CreateParticipantRequest) (int64, error) {
	if err := s.enter("CreateParticipant"); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	status := model.StatusRegistered
	if req.Status != nil {
		status = *req.Status
	}
	id := s.id(nil)
	s.st.participants[id] = model.Participant{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Status:      status,
	}
	return id, nil
}

func (s *Store) UpdateParticipant(ctx context.Context, id int64, req model.UpdateParticipantRequest) error {
	if err := s.enter("UpdateParticipant"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if req == (model.UpdateParticipantRequest{}) {
		return repository.ErrNoChanges
	}
	p, ok := s.st.participants[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		p.PhoneNumber = req.PhoneNumber
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	s.st.participants[id] = p
	return nil
}

func (s *Store) DeleteParticipant(ctx context.Context, id int64) error {
	if err := s.enter("DeleteParticipant"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.st.participants[id]; !ok {
		return repository.ErrNotFound
	}
	// Associations cascade, as event_participants.participant_id does.
	for l := range s.st.links {
		if l.participant == id {
			delete(s.st.links, l)
		}
	}
	delete(s.st.participants, id)
	return nil
}

func (s *Store) CountEventParticipants(ctx context.Context, eventID int64) (int, error) {
	if err := s.enter("CountEventParticipants"); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	n := 0
	for l := range s.st.links {
		if l.event == eventID {
			n++
		}
	}
	return n, nil
}

func (s *Store) AddEventParticipant(ctx context.Context, eventID, participantID int64) error {
	if err := s.enter("AddEventParticipant"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	_, hasEvent := s.st.events[eventID]
	_, hasParticipant := s.st.participants[participantID]
	if !hasEvent || !hasParticipant {
		return fmt.Errorf("link participant to event: %w", repository.ErrReferenced)
	}
	k := link{eventID, participantID}
	if _, ok := s.st.links[k]; ok {
		return fmt.Errorf("link participant to event: %w", repository.ErrDuplicate)
	}
	s.st.links[k] = struct{}{}
	return nil
}

func (s *Store) RemoveEventParticipants(ctx context.Context, eventID int64) error {
	if err := s.enter("RemoveEventParticipants"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	maps.DeleteFunc(s.st.links, func(l link, _ struct{}) bool { return l.event == eventID })
	return nil
}

func (s *Store) RemoveParticipantEvents(ctx context.Context, participantID int64) error {
	if err := s.enter("RemoveParticipantEvents"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	maps.DeleteFunc(s.st.links, func(l link, _ struct{}) bool { return l.participant == participantID })
	return nil
}

func (s *Store) ParticipantEventIDs(ctx context.Context, participantID int64) ([]int64, error) {
	if err := s.enter("ParticipantEventIDs"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	var ids []int64
	for l := range s.st.links {
		if l.participant == participantID {
			ids = append(ids, l.event)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) ListLocations(ctx context.Context) ([]model.Location, error) {
	if err := s.enter("ListLocations"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return sortedValues(s.st.locations, nil), nil
}

func (s *Store) LocationCapacity(ctx context.Context, locationID int64) (int, error) {
	if err := s.enter("LocationCapacity"); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	l, ok := s.st.locations[locationID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return l.Capacity, nil
}

func (s *Store) CreateLocation(ctx context.Context, req model.CreateLocationRequest) (int64, error) {
	if err := s.enter("CreateLocation"); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	defer s.mu.Unlock()
	id := s.id(nil)
	s.st.locations[id] = model.Location{
		ID:         id,
		Name:       req.Name,
		Capacity:   *req.Capacity,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	}
	return id, nil
}

func (s *Store) UpdateLocation(ctx context.Context, id int64, req model.UpdateLocationRequest) error {
	if err := s.enter("UpdateLocation"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if req == (model.UpdateLocationRequest{}) {
		return repository.ErrNoChanges
	}
	l, ok := s.st.locations[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Capacity != nil {
		l.Capacity = *req.Capacity
	}
	if req.Address != nil {
		l.Address = *req.Address
	}
	if req.City != nil {
		l.City = *req.City
	}
	if req.PostalCode != nil {
		l.PostalCode = req.PostalCode
	}
	s.st.locations[id] = l
	return nil
}

func (s *Store) DeleteLocation(ctx context.Context, id int64) error {
	if err := s.enter("DeleteLocation"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.st.locations[id]; !ok {
		return repository.ErrNotFound
	}
	for _, e := range s.st.events {
		if e.LocationID == id {
			return fmt.Errorf("delete location: %w", repository.ErrReferenced)
		}
	}
	delete(s.st.locations, id)
	return nil
}

func (s *Store) FeedbackByEvent(ctx context.Context, eventID int64) ([]model.Row, error) {
	if err := s.enter("FeedbackByEvent"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return slices.Clone(s.st.feedback[eventID]), nil
}

func (s *Store) SponsorsByEvent(ctx context.Context, eventID int64) ([]model.Row, error) {
	if err := s.enter("SponsorsByEvent"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return slices.Clone(s.st.sponsors[eventID]), nil
}

func (s *Store) HasAccessEntry(ctx context.Context, list model.AccessList, ip string) (bool, error) {
	if err := s.enter("HasAccessEntry"); err != nil {
		s.mu.Unlock()
		return false, err
	}
	defer s.mu.Unlock()
	_, ok := s.st.lists[list][ip]
	return ok, nil
}

func (s *Store) AddAccessEntry(ctx context.Context, list model.AccessList, ip string) error {
	if err := s.enter("AddAccessEntry"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	set, ok := s.st.lists[list]
	if !ok {
		return fmt.Errorf("unknown access list %q", list)
	}
	set[ip] = struct{}{}
	return nil
}

func (s *Store) RemoveAccessEntry(ctx context.Context, list model.AccessList, ip string) error {
	if err := s.enter("RemoveAccessEntry"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	set, ok := s.st.lists[list]
	if !ok {
		return fmt.Errorf("unknown access list %q", list)
	}
	delete(set, ip)
	return nil
}
