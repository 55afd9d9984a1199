package services

import (
	"testing"

	"banthub/internal/authz"
	"banthub/internal/models"
)

type postFixture struct {
	svc   PostService
	posts *fakePostRepo
	media *fakeMediaRepo
}

func newPostFixture() *postFixture {
	f := &postFixture{posts: newFakePostRepo(), media: newFakeMediaRepo()}
	f.svc = NewPostService(f.posts, f.media)
	return f
}

func (f *postFixture) publish(t *testing.T, authorID, title string) *models.Post {
	t.Helper()
	post, err := f.svc.Create(authorID, &models.CreatePostRequest{
		Title:    title,
		Content:  "some content for " + title,
		Category: "general",
	})
	if err != nil {
		t.Fatalf("publishing %q: %v", title, err)
	}
	return post
}

func TestCreatePostTrimsInput(t *testing.T) {
	f := newPostFixture()
	post, err := f.svc.Create("author-1", &models.CreatePostRequest{
		Title:    "  Hello  ",
		Content:  "  body  ",
		Category: "general",
	})
	if err != nil {
		t.Fatal(err)
	}
	if post.Title != "Hello" || post.Content != "body" {
		t.Errorf("got %q / %q, want trimmed", post.Title, post.Content)
	}
}

func TestCreatePostRejectsBlankFields(t *testing.T) {
	f := newPostFixture()
	if _, err := f.svc.Create("author-1", &models.CreatePostRequest{Title: "   ", Content: "body"}); err != ErrInvalidInput {
		t.Fatalf("blank title: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.Create("author-1", &models.CreatePostRequest{Title: "Hello", Content: " "}); err != ErrInvalidInput {
		t.Fatalf("blank content: err = %v, want ErrInvalidInput", err)
	}
}

func TestCreatePostDetectsDuplicates(t *testing.T) {
	f := newPostFixture()
	f.publish(t, "author-1", "Same post")

	_, err := f.svc.Create("author-1", &models.CreatePostRequest{
		Title:    "Same post",
		Content:  "some content for Same post",
		Category: "general",
	})
	if err != ErrDuplicate {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	// identical text from another author is fine
	if _, err := f.svc.Create("author-2", &models.CreatePostRequest{
		Title:    "Same post",
		Content:  "some content for Same post",
		Category: "general",
	}); err != nil {
		t.Fatalf("different author blocked: %v", err)
	}
}

func TestCreatePostAttachesMedia(t *testing.T) {
	f := newPostFixture()
	f.media.Create(&models.Media{ID: "m1", UserID: "author-1", URL: "https://cdn/x.png"})
	f.media.Create(&models.Media{ID: "m2", UserID: "someone-else", URL: "https://cdn/y.png"})

	post, err := f.svc.Create("author-1", &models.CreatePostRequest{
		Title:    "With media",
		Content:  "body",
		Category: "general",
		MediaIDs: []string{"m1", "m2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(post.Media) != 1 || post.Media[0].ID != "m1" {
		t.Fatalf("media = %+v, want only the author's own upload attached", post.Media)
	}
}

func TestGetCountsViewsFromOthersOnly(t *testing.T) {
	f := newPostFixture()
	post := f.publish(t, "author-1", "Views")

	got, err := f.svc.Get(post.ID, "author-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Views != 0 {
		t.Errorf("author view counted: views = %d", got.Views)
	}

	got, _ = f.svc.Get(post.ID, "reader-1")
	if got.Views != 1 {
		t.Errorf("views = %d, want 1", got.Views)
	}
	got, _ = f.svc.Get(post.ID, "")
	if got.Views != 2 {
		t.Errorf("anonymous read not counted: views = %d, want 2", got.Views)
	}
}

func TestGetUnknownPost(t *testing.T) {
	f := newPostFixture()
	if _, err := f.svc.Get("missing", ""); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestToggleLikeFlipsState(t *testing.T) {
	f := newPostFixture()
	post := f.publish(t, "author-1", "Likeable")

	liked, err := f.svc.ToggleLike(post.ID, "reader-1")
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	liked, err = f.svc.ToggleLike(post.ID, "reader-1")
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
	if n, _ := f.posts.GetLikesCount(); n != 0 {
		t.Errorf("likes count = %d after like+unlike", n)
	}
}

func TestToggleBookmarkFlipsState(t *testing.T) {
	f := newPostFixture()
	post := f.publish(t, "author-1", "Keeper")

	marked, err := f.svc.ToggleBookmark(post.ID, "reader-1")
	if err != nil || !marked {
		t.Fatalf("first toggle: marked=%v err=%v", marked, err)
	}
	saved, err := f.svc.ListBookmarked("reader-1", 20, 0)
	if err != nil || len(saved) != 1 {
		t.Fatalf("bookmarks = %d, want 1", len(saved))
	}
	marked, _ = f.svc.ToggleBookmark(post.ID, "reader-1")
	if marked {
		t.Fatal("second toggle should remove the bookmark")
	}
}

func TestUpdateRequiresOwnerOrModerator(t *testing.T) {
	f := newPostFixture()
	post := f.publish(t, "author-1", "Editable")
	req := &models.UpdatePostRequest{Title: "Edited"}

	if _, err := f.svc.Update(post.ID, "stranger", authz.RoleUser, req); err != ErrForbidden {
		t.Fatalf("stranger: err = %v, want ErrForbidden", err)
	}
	if _, err := f.svc.Update(post.ID, "author-1", authz.RoleUser, req); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := f.svc.Update(post.ID, "mod-1", authz.RoleModerator, req); err != nil {
		t.Fatalf("moderator: %v", err)
	}
}

func TestDeleteRequiresOwnerOrModerator(t *testing.T) {
	f := newPostFixture()
	post := f.publish(t, "author-1", "Removable")

	if err := f.svc.Delete(post.ID, "stranger", authz.RoleUser); err != ErrForbidden {
		t.Fatalf("stranger: err = %v, want ErrForbidden", err)
	}
	if err := f.svc.Delete(post.ID, "author-1", authz.RoleUser); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := f.svc.Get(post.ID, ""); err != ErrNotFound {
		t.Fatal("post still readable after delete")
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	f := newPostFixture()
	if _, err := f.svc.Search("   ", 20, 0); err != ErrInvalidInput {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 20}, {-5, 20}, {50, 50}, {100, 100}, {500, 100},
	}
	for _, tc := range cases {
		if got := clampLimit(tc.in); got != tc.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
