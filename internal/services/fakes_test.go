package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"banthub/internal/models"
	"banthub/internal/supabase"
)

// In-memory stand-ins for the repository interfaces. They implement just
// enough semantics for the flows under test.

type fakeUserRepo struct {
	byID map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*models.User{}}
}

// Create mirrors the real repository: the row is inserted active regardless
// of the struct's zero value, and the generated columns are scanned back.
func (f *fakeUserRepo) Create(u *models.User) error {
	u.IsActive = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) UpdateProfile(id string, req *models.UpdateProfileRequest) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Bio != "" {
		u.Bio = req.Bio
	}
	if req.Location != "" {
		u.Location = req.Location
	}
	if req.Website != "" {
		u.Website = req.Website
	}
	if req.Avatar != "" {
		u.Avatar = req.Avatar
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateRole(id, role string) error {
	if u, ok := f.byID[id]; ok {
		u.Role = role
		return nil
	}
	return sql.ErrNoRows
}

func (f *fakeUserRepo) SetActive(id string, active bool) error {
	if u, ok := f.byID[id]; ok {
		u.IsActive = active
		return nil
	}
	return sql.ErrNoRows
}

func (f *fakeUserRepo) SetVerified(id string, verified bool) error {
	if u, ok := f.byID[id]; ok {
		u.IsVerified = verified
		return nil
	}
	return sql.ErrNoRows
}

func (f *fakeUserRepo) Delete(id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) Search(query string, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListByRoles(roles []string) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		for _, r := range roles {
			if u.Role == r {
				cp := *u
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) RoleByID(ctx context.Context, id string) (string, error) {
	if u, ok := f.byID[id]; ok && u.IsActive {
		return u.Role, nil
	}
	return "", sql.ErrNoRows
}

func (f *fakeUserRepo) GetCount() (int, error) { return len(f.byID), nil }
func (f *fakeUserRepo) GetCountByRoles(roles []string) (int, error) {
	users, _ := f.ListByRoles(roles)
	return len(users), nil
}
func (f *fakeUserRepo) GetCountCreatedSince(since time.Time) (int, error) { return 0, nil }
func (f *fakeUserRepo) GetCountActiveSince(since time.Time) (int, error) { return 0, nil }

type fakeSessionRepo struct {
	byID map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byID: map[string]*models.Session{}}
}

func (f *fakeSessionRepo) Create(s *models.Session) error {
	s.IsActive = true
	s.CreatedAt = time.Now()
	s.LastActivity = s.CreatedAt
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) GetActiveByID(id string) (*models.Session, error) {
	s, ok := f.byID[id]
	if !ok || !s.IsActive || time.Now().After(s.ExpiresAt) {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) Rotate(oldID string, next *models.Session) error {
	old, ok := f.byID[oldID]
	if !ok || !old.IsActive {
		return sql.ErrNoRows
	}
	old.IsActive = false
	return f.Create(next)
}

func (f *fakeSessionRepo) Deactivate(id string) error {
	if s, ok := f.byID[id]; ok {
		s.IsActive = false
	}
	return nil
}

func (f *fakeSessionRepo) DeactivateAllForUser(userID string) error {
	for _, s := range f.byID {
		if s.UserID == userID {
			s.IsActive = false
		}
	}
	return nil
}

func (f *fakeSessionRepo) Touch(id string) error { return nil }

func (f *fakeSessionRepo) ListActiveByUser(userID string) ([]*models.Session, error) {
	var out []*models.Session
	for _, s := range f.byID {
		if s.UserID == userID && s.IsActive {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) DeleteExpired() (int64, error) { return 0, nil }

type fakeLockoutRepo struct {
	byUser map[string]*models.AccountLockout
}

func newFakeLockoutRepo() *fakeLockoutRepo {
	return &fakeLockoutRepo{byUser: map[string]*models.AccountLockout{}}
}

func (f *fakeLockoutRepo) Get(userID string) (*models.AccountLockout, error) {
	if l, ok := f.byUser[userID]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLockoutRepo) RecordFailure(userID string, lockedUntil *time.Time) (*models.AccountLockout, error) {
	l, ok := f.byUser[userID]
	if !ok {
		l = &models.AccountLockout{UserID: userID, CreatedAt: time.Now()}
		f.byUser[userID] = l
	}
	l.FailedAttempts++
	if lockedUntil != nil {
		l.LockedUntil = *lockedUntil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLockoutRepo) Clear(userID string) error {
	delete(f.byUser, userID)
	return nil
}

func (f *fakeLockoutRepo) DeleteExpired() (int64, error) { return 0, nil }

type fakeEventRepo struct {
	events []*models.SecurityEvent
}

func (f *fakeEventRepo) Insert(e *models.SecurityEvent) error {
	e.CreatedAt = time.Now()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) ListRecent(limit, offset int) ([]*models.SecurityEvent, error) {
	return f.events, nil
}

func (f *fakeEventRepo) ListByUser(userID string, limit, offset int) ([]*models.SecurityEvent, error) {
	var out []*models.SecurityEvent
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeOTPRepo struct {
	seq  int
	otps []*models.OTP
}

func (f *fakeOTPRepo) Create(o *models.OTP) error {
	f.seq++
	o.ID = fmt.Sprintf("otp-%d", f.seq)
	o.CreatedAt = time.Now()
	cp := *o
	f.otps = append(f.otps, &cp)
	return nil
}

func (f *fakeOTPRepo) LatestUnused(email, otpType string) (*models.OTP, error) {
	for i := len(f.otps) - 1; i >= 0; i-- {
		o := f.otps[i]
		if o.Email == email && o.Type == otpType && !o.Used {
			cp := *o
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeOTPRepo) IncrementAttempts(id string) (int, error) {
	for _, o := range f.otps {
		if o.ID == id {
			o.Attempts++
			return o.Attempts, nil
		}
	}
	return 0, sql.ErrNoRows
}

func (f *fakeOTPRepo) MarkUsed(id string) error {
	for _, o := range f.otps {
		if o.ID == id {
			o.Used = true
		}
	}
	return nil
}

func (f *fakeOTPRepo) InvalidateUnused(email, otpType string) error {
	for _, o := range f.otps {
		if o.Email == email && o.Type == otpType {
			o.Used = true
		}
	}
	return nil
}

func (f *fakeOTPRepo) DeleteExpired() (int64, error) { return 0, nil }

type fakeTwoFARepo struct {
	enabled map[string]bool
}

func newFakeTwoFARepo() *fakeTwoFARepo {
	return &fakeTwoFARepo{enabled: map[string]bool{}}
}

func (f *fakeTwoFARepo) Get(userID string) (*models.TwoFactorAuth, error) {
	if on, ok := f.enabled[userID]; ok {
		return &models.TwoFactorAuth{UserID: userID, Enabled: on}, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTwoFARepo) SetEnabled(userID string, enabled bool) error {
	f.enabled[userID] = enabled
	return nil
}

func (f *fakeTwoFARepo) IsEnabled(userID string) (bool, error) {
	return f.enabled[userID], nil
}

// fakeEmail records outbound mail so tests can read the freshly issued code.
type fakeEmail struct {
	lastCode    string
	lastPurpose string
	sent        int
}

func (f *fakeEmail) SendOTPEmail(email, code, purpose string) error {
	f.lastCode = code
	f.lastPurpose = purpose
	f.sent++
	return nil
}

func (f *fakeEmail) SendWelcomeEmail(email, name string) error {
	f.sent++
	return nil
}

// fakeProvider verifies passwords against a fixed map, like the hosted
// identity API would.
type fakeProvider struct {
	passwords map[string]string // email -> password
	idByEmail map[string]string
	updated   map[string]string // userID -> new password
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		passwords: map[string]string{},
		idByEmail: map[string]string{},
		updated:   map[string]string{},
	}
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, name string) (*supabase.AuthSession, error) {
	if _, taken := f.passwords[email]; taken {
		return nil, fmt.Errorf("email already registered")
	}
	id := fmt.Sprintf("uid-%d", len(f.passwords)+1)
	f.passwords[email] = password
	f.idByEmail[email] = id
	s := &supabase.AuthSession{AccessToken: "jwt-" + id}
	s.User.ID = id
	s.User.Email = email
	return s, nil
}

func (f *fakeProvider) PasswordGrant(ctx context.Context, email, password string) (*supabase.AuthSession, error) {
	if f.passwords[email] != password || password == "" {
		return nil, supabase.ErrInvalidCredentials
	}
	id := f.idByEmail[email]
	s := &supabase.AuthSession{AccessToken: "jwt-" + id}
	s.User.ID = id
	s.User.Email = email
	return s, nil
}

func (f *fakeProvider) AdminUpdatePassword(ctx context.Context, userID, newPassword string) error {
	f.updated[userID] = newPassword
	for email, id := range f.idByEmail {
		if id == userID {
			f.passwords[email] = newPassword
		}
	}
	return nil
}

type fakeStateRepo struct {
	byState map[string]*models.OAuthState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{byState: map[string]*models.OAuthState{}}
}

func (f *fakeStateRepo) Create(s *models.OAuthState) error {
	s.CreatedAt = time.Now()
	cp := *s
	f.byState[s.State] = &cp
	return nil
}

func (f *fakeStateRepo) Consume(state string) (*models.OAuthState, error) {
	s, ok := f.byState[state]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, sql.ErrNoRows
	}
	delete(f.byState, state)
	return s, nil
}

func (f *fakeStateRepo) DeleteExpired() (int64, error) { return 0, nil }

type fakePostRepo struct {
	seq       int
	byID      map[string]*models.Post
	hashes    map[string]string // hash -> post id
	likes     map[string]map[string]bool
	bookmarks map[string]map[string]bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		byID:      map[string]*models.Post{},
		hashes:    map[string]string{},
		likes:     map[string]map[string]bool{},
		bookmarks: map[string]map[string]bool{},
	}
}

func (f *fakePostRepo) Create(p *models.Post, contentHash string) error {
	f.seq++
	p.ID = fmt.Sprintf("post-%d", f.seq)
	p.PublishedAt = time.Now()
	p.CreatedAt = p.PublishedAt
	p.UpdatedAt = p.PublishedAt
	cp := *p
	f.byID[p.ID] = &cp
	f.hashes[contentHash] = p.ID
	return nil
}

func (f *fakePostRepo) GetByID(id string) (*models.Post, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) List(category, sortKey string, limit, offset int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.byID {
		if category == "" || p.Category == category {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePostRepo) ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.byID {
		if p.AuthorID == authorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Search(query string, limit, offset int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.byID {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Update(p *models.Post) error {
	stored, ok := f.byID[p.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if p.Title != "" {
		stored.Title = p.Title
	}
	if p.Content != "" {
		stored.Content = p.Content
	}
	if p.Category != "" {
		stored.Category = p.Category
	}
	if p.Tags != nil {
		stored.Tags = p.Tags
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakePostRepo) Delete(id, authorID string) error {
	delete(f.byID, id)
	for hash, postID := range f.hashes {
		if postID == id {
			delete(f.hashes, hash)
		}
	}
	return nil
}

func (f *fakePostRepo) SetPinned(id string, pinned bool) error {
	if p, ok := f.byID[id]; ok {
		p.IsPinned = pinned
		return nil
	}
	return sql.ErrNoRows
}

func (f *fakePostRepo) ExistsByContentHash(hash string) (bool, error) {
	_, ok := f.hashes[hash]
	return ok, nil
}

func (f *fakePostRepo) IncrementViews(id string) error {
	if p, ok := f.byID[id]; ok {
		p.Views++
		return nil
	}
	return sql.ErrNoRows
}

func (f *fakePostRepo) toggle(set map[string]map[string]bool, postID, userID string, add bool) bool {
	users := set[postID]
	if users == nil {
		users = map[string]bool{}
		set[postID] = users
	}
	if add == users[userID] {
		return false
	}
	if add {
		users[userID] = true
	} else {
		delete(users, userID)
	}
	return true
}

func (f *fakePostRepo) Like(postID, userID string) (bool, error) {
	changed := f.toggle(f.likes, postID, userID, true)
	if changed {
		f.byID[postID].Likes++
	}
	return changed, nil
}

func (f *fakePostRepo) Unlike(postID, userID string) (bool, error) {
	changed := f.toggle(f.likes, postID, userID, false)
	if changed {
		f.byID[postID].Likes--
	}
	return changed, nil
}

func (f *fakePostRepo) IsLiked(postID, userID string) (bool, error) {
	return f.likes[postID][userID], nil
}

func (f *fakePostRepo) Bookmark(postID, userID string) (bool, error) {
	return f.toggle(f.bookmarks, postID, userID, true), nil
}

func (f *fakePostRepo) Unbookmark(postID, userID string) (bool, error) {
	return f.toggle(f.bookmarks, postID, userID, false), nil
}

func (f *fakePostRepo) IsBookmarked(postID, userID string) (bool, error) {
	return f.bookmarks[postID][userID], nil
}

func (f *fakePostRepo) ListBookmarked(userID string, limit, offset int) ([]*models.Post, error) {
	var out []*models.Post
	for postID, users := range f.bookmarks {
		if users[userID] {
			if p, ok := f.byID[postID]; ok {
				cp := *p
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakePostRepo) GetCount() (int, error)                            { return len(f.byID), nil }
func (f *fakePostRepo) GetCountCreatedSince(since time.Time) (int, error) { return 0, nil }

func (f *fakePostRepo) GetLikesCount() (int, error) {
	n := 0
	for _, users := range f.likes {
		n += len(users)
	}
	return n, nil
}

func (f *fakePostRepo) GetBookmarksCount() (int, error) {
	n := 0
	for _, users := range f.bookmarks {
		n += len(users)
	}
	return n, nil
}

type fakeMediaRepo struct {
	byID map[string]*models.Media
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{byID: map[string]*models.Media{}}
}

func (f *fakeMediaRepo) Create(m *models.Media) error {
	m.CreatedAt = time.Now()
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMediaRepo) GetByID(id string) (*models.Media, error) {
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMediaRepo) Delete(id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeMediaRepo) AttachToPost(mediaIDs []string, postID, ownerID string) error {
	for _, id := range mediaIDs {
		if m, ok := f.byID[id]; ok && m.UserID == ownerID && m.PostID == "" {
			m.PostID = postID
		}
	}
	return nil
}

func (f *fakeMediaRepo) ListByPost(postID string) ([]*models.Media, error) {
	var out []*models.Media
	for _, m := range f.byID {
		if m.PostID == postID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) ListByUser(userID string, limit, offset int) ([]*models.Media, error) {
	var out []*models.Media
	for _, m := range f.byID {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) GetCount() (int, error) { return len(f.byID), nil }

type fakeOAuthProvider struct {
	session *supabase.AuthSession
	fail    bool
}

func (f *fakeOAuthProvider) AuthorizeURL(provider, redirectTo, state string) string {
	return fmt.Sprintf("https://id.example.com/authorize?provider=%s&state=%s", provider, state)
}

func (f *fakeOAuthProvider) ExchangeOAuthCode(ctx context.Context, code, codeVerifier string) (*supabase.AuthSession, error) {
	if f.fail {
		return nil, fmt.Errorf("exchange rejected")
	}
	return f.session, nil
}
