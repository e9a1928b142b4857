package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/edusponsor/internal/app/models"
	"github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
	"github.com/yigit/edusponsor/internal/pkg/auth"
	"github.com/yigit/edusponsor/internal/pkg/metrics"
	"github.com/yigit/edusponsor/internal/pkg/payments"
)

// memStore backs every fake repository
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	schools      map[uuid.UUID]*models.School
	students     map[uuid.UUID]*models.StudentProfile
	sponsorships map[uuid.UUID]*models.Sponsorship
	donations    []*models.Donation
	events       map[string]*models.PaymentEvent
	emailLogs    []*models.EmailLog
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]*models.User{},
		schools:      map[uuid.UUID]*models.School{},
		students:     map[uuid.UUID]*models.StudentProfile{},
		sponsorships: map[uuid.UUID]*models.Sponsorship{},
		events:       map[string]*models.PaymentEvent{},
	}
}

func (m *memStore) repositories() *repositories.Repositories {
	repos := &repositories.Repositories{
		Users:         &fakeUserRepo{m},
		Schools:       &fakeSchoolRepo{m},
		Students:      &fakeStudentRepo{m},
		Sponsorships:  &fakeSponsorshipRepo{m},
		Donations:     &fakeDonationRepo{m},
		PaymentEvents: &fakePaymentEventRepo{m},
		EmailLogs:     &fakeEmailLogRepo{m},
	}
	repos.Tx = fakeTransactor{repos: repos}
	return repos
}

type fakeTransactor struct {
	repos *repositories.Repositories
}

func (t fakeTransactor) WithinTransaction(ctx context.Context, fn func(repos *repositories.Repositories) error) error {
	return fn(t.repos)
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type fakeUserRepo struct{ m *memStore }

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	ensureID(&u.ID)
	if u.Role == "" {
		u.Role = models.RoleSponsor
	}
	r.m.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeSchoolRepo struct{ m *memStore }

func (r *fakeSchoolRepo) Create(_ context.Context, s *models.School) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&s.ID)
	if s.Status == "" {
		s.Status = models.SchoolStatusActive
	}
	s.CreatedAt = time.Now()
	r.m.schools[s.ID] = s
	return nil
}

func (r *fakeSchoolRepo) GetByID(_ context.Context, id uuid.UUID) (*models.School, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.schools[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, apperrors.ErrSchoolNotFound
}

func (r *fakeSchoolRepo) GetAll(_ context.Context) ([]models.School, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.School, 0, len(r.m.schools))
	for _, s := range r.m.schools {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSchoolRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.schools[id]
	return ok, nil
}

func (r *fakeSchoolRepo) Update(_ context.Context, id uuid.UUID, changes map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.schools[id]
	if !ok {
		return apperrors.ErrSchoolNotFound
	}
	for k, v := range changes {
		switch k {
		case "name":
			s.Name = v.(string)
		case "description":
			s.Description = v.(string)
		case "district":
			s.District = v.(string)
		case "status":
			s.Status = v.(string)
		}
	}
	return nil
}

func (r *fakeSchoolRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.schools[id]; !ok {
		return apperrors.ErrSchoolNotFound
	}
	delete(r.m.schools, id)
	return nil
}

type fakeStudentRepo struct{ m *memStore }

func (r *fakeStudentRepo) Create(_ context.Context, p *models.StudentProfile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&p.ID)
	r.m.students[p.ID] = p
	return nil
}

func (r *fakeStudentRepo) CreateBatch(ctx context.Context, ps []*models.StudentProfile) error {
	for _, p := range ps {
		if err := r.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.StudentProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if p, ok := r.m.students[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetAll(_ context.Context) ([]models.StudentProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.StudentProfile, 0, len(r.m.students))
	for _, p := range r.m.students {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeStudentRepo) GetBySchoolID(_ context.Context, schoolID uuid.UUID) ([]models.StudentProfile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.StudentProfile
	for _, p := range r.m.students {
		if p.SchoolID == schoolID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) CountBySchoolID(ctx context.Context, schoolID uuid.UUID) (int64, error) {
	list, _ := r.GetBySchoolID(ctx, schoolID)
	return int64(len(list)), nil
}

func (r *fakeStudentRepo) Update(_ context.Context, id uuid.UUID, changes map[string]interface{}) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	for k, v := range changes {
		switch k {
		case "name":
			p.Name = v.(string)
		case "age":
			p.Age = v.(string)
		case "parent_name":
			p.ParentName = v.(string)
		case "school_id":
			p.SchoolID = v.(uuid.UUID)
		}
	}
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.m.students, id)
	return nil
}

type fakeSponsorshipRepo struct{ m *memStore }

func (r *fakeSponsorshipRepo) Create(_ context.Context, s *models.Sponsorship) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&s.ID)
	r.m.sponsorships[s.ID] = s
	return nil
}

func (r *fakeSponsorshipRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Sponsorship, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.sponsorships[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, apperrors.ErrSponsorshipNotFound
}

func (r *fakeSponsorshipRepo) FindByPair(_ context.Context, sponsorID, studentID uuid.UUID) (*models.Sponsorship, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sponsorships {
		if s.SponsorID == sponsorID && s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, apperrors.ErrSponsorshipNotFound
}

func (r *fakeSponsorshipRepo) list(match func(*models.Sponsorship) bool) []models.Sponsorship {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Sponsorship
	for _, s := range r.m.sponsorships {
		if match(s) {
			out = append(out, *s)
		}
	}
	return out
}

func (r *fakeSponsorshipRepo) ListBySponsor(_ context.Context, sponsorID uuid.UUID) ([]models.Sponsorship, error) {
	return r.list(func(s *models.Sponsorship) bool { return s.SponsorID == sponsorID }), nil
}

func (r *fakeSponsorshipRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]models.Sponsorship, error) {
	return r.list(func(s *models.Sponsorship) bool { return s.StudentID == studentID }), nil
}

func (r *fakeSponsorshipRepo) IDsBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]uuid.UUID, error) {
	list, _ := r.ListBySponsor(ctx, sponsorID)
	ids := make([]uuid.UUID, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r *fakeSponsorshipRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sponsorships[id]
	if !ok {
		return apperrors.ErrSponsorshipNotFound
	}
	s.Status = status
	return nil
}

type fakeDonationRepo struct{ m *memStore }

func (r *fakeDonationRepo) Create(_ context.Context, d *models.Donation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if d.PaymentReference != nil {
		for _, existing := range r.m.donations {
			if existing.PaymentReference != nil && *existing.PaymentReference == *d.PaymentReference {
				return repositories.ErrDuplicatePaymentReference
			}
		}
	}
	ensureID(&d.ID)
	if d.DonatedAt.IsZero() {
		d.DonatedAt = time.Now()
	}
	r.m.donations = append(r.m.donations, d)
	return nil
}

func (r *fakeDonationRepo) GetByPaymentReference(_ context.Context, ref string) (*models.Donation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, d := range r.m.donations {
		if d.PaymentReference != nil && *d.PaymentReference == ref {
			return d, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (r *fakeDonationRepo) ListBySponsorship(ctx context.Context, id uuid.UUID) ([]models.Donation, error) {
	return r.ListBySponsorshipIDs(ctx, []uuid.UUID{id})
}

func (r *fakeDonationRepo) ListBySponsorshipIDs(_ context.Context, ids []uuid.UUID) ([]models.Donation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Donation
	for _, d := range r.m.donations {
		for _, id := range ids {
			if d.SponsorshipID == id {
				out = append(out, *d)
			}
		}
	}
	return out, nil
}

func (r *fakeDonationRepo) ListAllWithParties(_ context.Context) ([]models.Donation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.Donation, 0, len(r.m.donations))
	for _, d := range r.m.donations {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDonationRepo) TotalsBySponsor(ctx context.Context, sponsorID uuid.UUID) (repositories.DonationTotals, error) {
	ids, _ := (&fakeSponsorshipRepo{r.m}).IDsBySponsor(ctx, sponsorID)
	list, _ := r.ListBySponsorshipIDs(ctx, ids)
	var totals repositories.DonationTotals
	for _, d := range list {
		totals.Total += d.Amount
		totals.Count++
	}
	return totals, nil
}

type fakePaymentEventRepo struct{ m *memStore }

func (r *fakePaymentEventRepo) Record(_ context.Context, e *models.PaymentEvent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.events[e.EventID]; ok {
		return apperrors.ErrEventAlreadyHandled
	}
	ensureID(&e.ID)
	r.m.events[e.EventID] = e
	return nil
}

type fakeEmailLogRepo struct{ m *memStore }

func (r *fakeEmailLogRepo) Create(_ context.Context, e *models.EmailLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&e.ID)
	r.m.emailLogs = append(r.m.emailLogs, e)
	return nil
}

// recordingNotifier remembers which donations were announced
type recordingNotifier struct {
	mu        sync.Mutex
	donations []uuid.UUID
}

func (n *recordingNotifier) DonationRecorded(_ context.Context, d *models.Donation, _ *models.Sponsorship) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.donations = append(n.donations, d.ID)
}

// testEnv is a fully wired service set on top of the in-memory store
type testEnv struct {
	store    *memStore
	repos    *repositories.Repositories
	gateway  *payments.FakeGateway
	notifier *recordingNotifier
	jwt      *auth.JWTService
	services *Services
}

func newTestEnv() *testEnv {
	store := newMemStore()
	repos := store.repositories()
	gateway := payments.NewFakeGateway()
	notifier := &recordingNotifier{}
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: time.Hour})

	svcs := NewServices(Dependencies{
		Repos:    repos,
		JWT:      jwtService,
		Gateway:  gateway,
		Notifier: notifier,
		Metrics:  metrics.New(),
		URLs:     RedirectURLs{Frontend: "http://front.test", Backend: "http://api.test/"},
		Logger:   zerolog.Nop(),
	})

	return &testEnv{
		store:    store,
		repos:    repos,
		gateway:  gateway,
		notifier: notifier,
		jwt:      jwtService,
		services: svcs,
	}
}

func (e *testEnv) addUser(role models.Role) *models.User {
	id := uuid.New()
	u := &models.User{ID: id, Name: string(role) + " user", Age: "20", Email: id.String() + "@example.org", Role: role}
	e.store.users[id] = u
	return u
}

func (e *testEnv) addSchool() *models.School {
	s := &models.School{ID: uuid.New(), Name: "Hillside", Description: "Primary", District: "Kisumu", Status: "Active", CreatedAt: time.Now()}
	e.store.schools[s.ID] = s
	return s
}
