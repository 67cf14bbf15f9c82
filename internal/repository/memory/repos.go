package memory

import (
	"context"
	"sort"
	"time"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
)

// ── User ──

type userRepo struct {
	s *store
}

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.UserID = newID(user.UserID)
	if user.Role == "" {
		user.Role = "member"
	}
	if user.Timezone == "" {
		user.Timezone = "America/New_York"
	}
	stampCreate(&user.BaseModel)
	r.s.users[user.UserID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, errNotFound
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errNotFound
}

func (r *userRepo) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.UserID]; !ok {
		return errNotFound
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.UserID] = *user
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

// ── Syllabus ──

type syllabusRepo struct {
	s *store
}

func (r *syllabusRepo) Create(_ context.Context, syllabus *model.Syllabus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	syllabus.SyllabusID = newID(syllabus.SyllabusID)
	if syllabus.Status == "" {
		syllabus.Status = model.SyllabusStatusUploaded
	}
	stampCreate(&syllabus.BaseModel)
	r.s.syllabi[syllabus.SyllabusID] = *syllabus
	return nil
}

func (r *syllabusRepo) GetByID(_ context.Context, id string) (*model.Syllabus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if s, ok := r.s.syllabi[id]; ok {
		return &s, nil
	}
	return nil, errNotFound
}

func (r *syllabusRepo) ListByUser(_ context.Context, userID string) ([]model.Syllabus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.Syllabus, 0)
	for _, s := range r.s.syllabi {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	sortNewestFirst(result, func(s model.Syllabus) time.Time { return s.CreatedAt })
	return result, nil
}

func (r *syllabusRepo) Update(_ context.Context, syllabus *model.Syllabus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.syllabi[syllabus.SyllabusID]; !ok {
		return errNotFound
	}
	syllabus.UpdatedAt = time.Now()
	r.s.syllabi[syllabus.SyllabusID] = *syllabus
	return nil
}

func (r *syllabusRepo) MarkProcessed(_ context.Context, syllabus *model.Syllabus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.syllabi[syllabus.SyllabusID]
	if !ok {
		return errNotFound
	}
	// 状态机兜底：仅 uploaded 可迁移，终态写入静默忽略（与 UPDATE…WHERE 行为一致）
	if cur.Status != model.SyllabusStatusUploaded {
		return nil
	}
	cur.Status = model.SyllabusStatusProcessed
	cur.CourseCode = syllabus.CourseCode
	cur.CourseName = syllabus.CourseName
	cur.Instructor = syllabus.Instructor
	cur.Term = syllabus.Term
	cur.FirstClassDay = syllabus.FirstClassDay
	cur.LastClassDay = syllabus.LastClassDay
	cur.MeetingDays = syllabus.MeetingDays
	cur.ClassStartTime = syllabus.ClassStartTime
	cur.ClassEndTime = syllabus.ClassEndTime
	cur.ErrorDetail = ""
	cur.UpdatedAt = time.Now()
	r.s.syllabi[cur.SyllabusID] = cur
	return nil
}

func (r *syllabusRepo) MarkError(_ context.Context, id string, detail string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.syllabi[id]
	if !ok {
		return errNotFound
	}
	if cur.Status != model.SyllabusStatusUploaded {
		return nil
	}
	cur.Status = model.SyllabusStatusError
	cur.ErrorDetail = detail
	cur.UpdatedAt = time.Now()
	r.s.syllabi[id] = cur
	return nil
}

func (r *syllabusRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.syllabi, id)
	return nil
}

// ── CourseEvent ──

type courseEventRepo struct {
	s *store
}

func (r *courseEventRepo) BatchCreate(_ context.Context, events []model.CourseEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range events {
		events[i].EventID = newID(events[i].EventID)
		if events[i].EventType == "" {
			events[i].EventType = model.EventTypeOther
		}
		stampCreate(&events[i].BaseModel)
		r.s.events[events[i].EventID] = events[i]
	}
	return nil
}

func (r *courseEventRepo) Create(_ context.Context, event *model.CourseEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event.EventID = newID(event.EventID)
	if event.EventType == "" {
		event.EventType = model.EventTypeOther
	}
	stampCreate(&event.BaseModel)
	r.s.events[event.EventID] = *event
	return nil
}

func (r *courseEventRepo) GetByID(_ context.Context, id string) (*model.CourseEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if e, ok := r.s.events[id]; ok {
		return &e, nil
	}
	return nil, errNotFound
}

func (r *courseEventRepo) ListBySyllabus(_ context.Context, syllabusID string) ([]model.CourseEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.CourseEvent, 0)
	for _, e := range r.s.events {
		if e.SyllabusID == syllabusID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (r *courseEventRepo) Update(_ context.Context, event *model.CourseEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.EventID]; !ok {
		return errNotFound
	}
	event.UpdatedAt = time.Now()
	r.s.events[event.EventID] = *event
	return nil
}

func (r *courseEventRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.events, id)
	return nil
}

func (r *courseEventRepo) DeleteBySyllabus(_ context.Context, syllabusID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.events {
		if e.SyllabusID == syllabusID {
			delete(r.s.events, id)
		}
	}
	return nil
}

// ── StudyPlan ──

type studyPlanRepo struct {
	s *store
}

func (r *studyPlanRepo) Create(_ context.Context, plan *model.StudyPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	plan.PlanID = newID(plan.PlanID)
	stampCreate(&plan.BaseModel)
	r.s.plans[plan.PlanID] = *plan
	return nil
}

func (r *studyPlanRepo) GetByID(_ context.Context, id string) (*model.StudyPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.plans[id]; ok {
		return &p, nil
	}
	return nil, errNotFound
}

func (r *studyPlanRepo) ListByUser(_ context.Context, userID string) ([]model.StudyPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.StudyPlan, 0)
	for _, p := range r.s.plans {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sortNewestFirst(result, func(p model.StudyPlan) time.Time { return p.CreatedAt })
	return result, nil
}

func (r *studyPlanRepo) ListBySyllabus(_ context.Context, syllabusID string) ([]model.StudyPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.StudyPlan, 0)
	for _, p := range r.s.plans {
		if p.SyllabusID == syllabusID {
			result = append(result, p)
		}
	}
	sortNewestFirst(result, func(p model.StudyPlan) time.Time { return p.CreatedAt })
	return result, nil
}

func (r *studyPlanRepo) Update(_ context.Context, plan *model.StudyPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[plan.PlanID]; !ok {
		return errNotFound
	}
	plan.UpdatedAt = time.Now()
	r.s.plans[plan.PlanID] = *plan
	return nil
}

func (r *studyPlanRepo) MarkIntegrated(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.plans[id]
	if !ok {
		return errNotFound
	}
	cur.CalendarIntegrated = true
	cur.UpdatedAt = time.Now()
	r.s.plans[id] = cur
	return nil
}

func (r *studyPlanRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.plans, id)
	return nil
}

// ── StudySession ──

type studySessionRepo struct {
	s *store
}

func (r *studySessionRepo) Create(_ context.Context, session *model.StudySession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session.SessionID = newID(session.SessionID)
	stampCreate(&session.BaseModel)
	r.s.sessions[session.SessionID] = *session
	return nil
}

func (r *studySessionRepo) GetByID(_ context.Context, id string) (*model.StudySession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if s, ok := r.s.sessions[id]; ok {
		return &s, nil
	}
	return nil, errNotFound
}

func (r *studySessionRepo) ListByPlan(_ context.Context, planID string) ([]model.StudySession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]model.StudySession, 0)
	for _, s := range r.s.sessions {
		if s.PlanID == planID {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r *studySessionRepo) Update(_ context.Context, session *model.StudySession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[session.SessionID]; !ok {
		return errNotFound
	}
	session.UpdatedAt = time.Now()
	r.s.sessions[session.SessionID] = *session
	return nil
}

func (r *studySessionRepo) SetCalendarEventID(_ context.Context, id string, calendarEventID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.sessions[id]
	if !ok {
		return errNotFound
	}
	// 仅允许写入一次（与 UPDATE…WHERE calendar_event_id IS NULL 行为一致）
	if cur.CalendarEventID != "" {
		return nil
	}
	cur.CalendarEventID = calendarEventID
	cur.UpdatedAt = time.Now()
	r.s.sessions[id] = cur
	return nil
}

func (r *studySessionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r *studySessionRepo) DeleteByPlan(_ context.Context, planID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, s := range r.s.sessions {
		if s.PlanID == planID {
			delete(r.s.sessions, id)
		}
	}
	return nil
}

// ── OAuthToken ──

type oauthTokenRepo struct {
	s *store
}

func (r *oauthTokenRepo) Upsert(_ context.Context, token *model.OAuthToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.tokens {
		if t.UserID == token.UserID && t.Provider == token.Provider {
			token.TokenID = id
			token.CreatedAt = t.CreatedAt
			token.UpdatedAt = time.Now()
			r.s.tokens[id] = *token
			return nil
		}
	}
	token.TokenID = newID(token.TokenID)
	stampCreate(&token.BaseModel)
	r.s.tokens[token.TokenID] = *token
	return nil
}

func (r *oauthTokenRepo) GetByUserAndProvider(_ context.Context, userID, provider string) (*model.OAuthToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tokens {
		if t.UserID == userID && t.Provider == provider {
			return &t, nil
		}
	}
	return nil, errNotFound
}

func (r *oauthTokenRepo) ListExpiring(_ context.Context, within time.Duration) ([]model.OAuthToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	deadline := time.Now().Add(within)
	result := make([]model.OAuthToken, 0)
	for _, t := range r.s.tokens {
		if t.Expiry != nil && t.Expiry.Before(deadline) && t.RefreshToken != "" {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *oauthTokenRepo) Update(_ context.Context, token *model.OAuthToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tokens[token.TokenID]; !ok {
		return errNotFound
	}
	token.UpdatedAt = time.Now()
	r.s.tokens[token.TokenID] = *token
	return nil
}

func (r *oauthTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.tokens {
		if t.UserID == userID {
			delete(r.s.tokens, id)
		}
	}
	return nil
}
