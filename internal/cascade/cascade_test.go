package cascade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gamehub/internal/cascade"
	"gamehub/internal/consistency"
	"gamehub/internal/content"
	"gamehub/internal/likes"
	"gamehub/internal/models"
	"gamehub/internal/testutil"
	"gamehub/internal/users"
)

func TestDeleteUserRemovesEverythingItOwns(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	victim := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	other := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)

	// the victim owns an article and a review
	va := testutil.CreateArticle(t, dbc, victim.ID, "victims-article")
	vr := testutil.CreateReview(t, dbc, victim.ID, "victims-review")
	// and likes the other user's article
	oa := testutil.CreateArticle(t, dbc, other.ID, "others-article")

	tg := likes.NewToggler(dbc)
	_, err := tg.Toggle(ctx, victim.ID, models.TypeArticle, oa.ID)
	require.NoError(t, err)
	_, err = tg.Toggle(ctx, other.ID, models.TypeArticle, va.ID)
	require.NoError(t, err)
	_, err = tg.Toggle(ctx, victim.ID, models.TypeReview, vr.ID)
	require.NoError(t, err)

	// one victim comment without replies, one with a reply from the other user
	lone := testutil.CreateComment(t, dbc, victim.ID, oa.ID, nil)
	parent := testutil.CreateComment(t, dbc, victim.ID, oa.ID, nil)
	reply := testutil.CreateComment(t, dbc, other.ID, oa.ID, &parent.ID)
	_, err = tg.Toggle(ctx, other.ID, models.TypeComment, parent.ID)
	require.NoError(t, err)

	res, err := cascade.NewCoordinator(dbc).DeleteUser(ctx, victim.ID)
	require.NoError(t, err)
	require.False(t, res.WasAdmin)
	require.Equal(t, 2, res.Likes)
	require.Equal(t, 1, res.Articles)
	require.Equal(t, 1, res.Reviews)
	require.Equal(t, 1, res.CommentsHardDeleted)
	require.Equal(t, 1, res.CommentsSoftDeleted)

	_, err = users.NewStore(dbc).ByID(ctx, victim.ID)
	require.ErrorIs(t, err, users.ErrNotFound)

	reg := content.NewRegistry(dbc)
	ok, err := reg.Exists(ctx, models.TypeArticle, va.ID)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = reg.Exists(ctx, models.TypeReview, vr.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// the other user's article lost the victim's like
	n, err := reg.LikeCount(ctx, models.TypeArticle, oa.ID)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// lone comment is gone, commented parent became a placeholder
	_, err = reg.CommentByID(ctx, lone.ID)
	require.ErrorIs(t, err, content.ErrNotFound)
	cm, err := reg.CommentByID(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, cm.Deleted)
	require.Empty(t, cm.Content)
	require.Equal(t, 0, cm.LikeCount)
	_, err = reg.CommentByID(ctx, reply.ID)
	require.NoError(t, err)

	t.Run("world is consistent afterwards", func(t *testing.T) {
		rep, err := consistency.NewAuditor(dbc).Audit(ctx)
		require.NoError(t, err)
		require.True(t, rep.Consistent)
	})
}

func TestDeleteUserAdmin(t *testing.T) {
	dbc := testutil.OpenDB(t)
	admin := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleAdmin)

	res, err := cascade.NewCoordinator(dbc).DeleteUser(context.Background(), admin.ID)
	require.NoError(t, err)
	require.True(t, res.WasAdmin)
}

func TestDeleteUserMissing(t *testing.T) {
	dbc := testutil.OpenDB(t)
	_, err := cascade.NewCoordinator(dbc).DeleteUser(context.Background(), 404)
	require.ErrorIs(t, err, content.ErrNotFound)
}

func TestDeleteCommentWithoutRepliesHardDeletes(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "first")
	cm := testutil.CreateComment(t, dbc, u.ID, a.ID, nil)
	_, err := likes.NewToggler(dbc).Toggle(ctx, u.ID, models.TypeComment, cm.ID)
	require.NoError(t, err)

	res, err := cascade.NewCoordinator(dbc).DeleteComment(ctx, cm.ID, u)
	require.NoError(t, err)
	require.True(t, res.HardDeleted)
	require.Equal(t, 1, res.LikesRemoved)

	_, err = content.NewRegistry(dbc).CommentByID(ctx, cm.ID)
	require.ErrorIs(t, err, content.ErrNotFound)
	n, err := likes.NewLedger(dbc).CountFor(ctx, models.TypeComment, cm.ID)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestDeleteCommentWithRepliesSoftDeletes(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	other := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, u.ID, "first")
	parent := testutil.CreateComment(t, dbc, u.ID, a.ID, nil)
	reply := testutil.CreateComment(t, dbc, other.ID, a.ID, &parent.ID)
	_, err := likes.NewToggler(dbc).Toggle(ctx, other.ID, models.TypeComment, parent.ID)
	require.NoError(t, err)

	res, err := cascade.NewCoordinator(dbc).DeleteComment(ctx, parent.ID, u)
	require.NoError(t, err)
	require.False(t, res.HardDeleted)
	require.Equal(t, 1, res.LikesRemoved)

	reg := content.NewRegistry(dbc)
	cm, err := reg.CommentByID(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, cm.Deleted)
	require.Empty(t, cm.Content)
	require.Equal(t, 0, cm.LikeCount)

	// the reply stays attached
	r, err := reg.CommentByID(ctx, reply.ID)
	require.NoError(t, err)
	require.Equal(t, parent.ID, *r.ParentID)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	stranger := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	admin := testutil.CreateUser(t, dbc, testutil.NewEmail(3), models.RoleAdmin)
	a := testutil.CreateArticle(t, dbc, author.ID, "first")
	cm := testutil.CreateComment(t, dbc, author.ID, a.ID, nil)

	co := cascade.NewCoordinator(dbc)
	_, err := co.DeleteComment(ctx, cm.ID, stranger)
	require.ErrorIs(t, err, content.ErrForbidden)

	// refused before any mutation
	got, err := content.NewRegistry(dbc).CommentByID(ctx, cm.ID)
	require.NoError(t, err)
	require.False(t, got.Deleted)

	_, err = co.DeleteComment(ctx, cm.ID, admin)
	require.NoError(t, err)
}

func TestForceDeleteComment(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	other := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, author.ID, "first")
	parent := testutil.CreateComment(t, dbc, author.ID, a.ID, nil)
	reply := testutil.CreateComment(t, dbc, other.ID, a.ID, &parent.ID)

	co := cascade.NewCoordinator(dbc)

	t.Run("refused while the comment is active", func(t *testing.T) {
		_, err := co.ForceDeleteComment(ctx, parent.ID, author)
		require.ErrorIs(t, err, content.ErrInvalidState)
	})

	_, err := co.DeleteComment(ctx, parent.ID, author)
	require.NoError(t, err)

	t.Run("refused for a stranger", func(t *testing.T) {
		_, err := co.ForceDeleteComment(ctx, parent.ID, other)
		require.ErrorIs(t, err, content.ErrForbidden)
	})

	res, err := co.ForceDeleteComment(ctx, parent.ID, author)
	require.NoError(t, err)
	require.True(t, res.HardDeleted)

	_, err = content.NewRegistry(dbc).CommentByID(ctx, parent.ID)
	require.ErrorIs(t, err, content.ErrNotFound)

	// the reply outlives its placeholder parent
	_, err = content.NewRegistry(dbc).CommentByID(ctx, reply.ID)
	require.NoError(t, err)

	t.Run("missing comment", func(t *testing.T) {
		_, err := co.ForceDeleteComment(ctx, parent.ID, author)
		require.ErrorIs(t, err, content.ErrNotFound)
	})
}

// A cascade-deleted author leaves placeholder comments with no user row
// behind them. The thread must keep its shape: the placeholder resolves,
// stays listed with an honest total, and can still be force-deleted.
func TestThreadSurvivesAuthorDeletion(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	other := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	admin := testutil.CreateUser(t, dbc, testutil.NewEmail(3), models.RoleAdmin)
	a := testutil.CreateArticle(t, dbc, other.ID, "first")
	parent := testutil.CreateComment(t, dbc, author.ID, a.ID, nil)
	reply := testutil.CreateComment(t, dbc, other.ID, a.ID, &parent.ID)

	co := cascade.NewCoordinator(dbc)
	_, err := co.DeleteUser(ctx, author.ID)
	require.NoError(t, err)

	reg := content.NewRegistry(dbc)
	cm, err := reg.CommentByID(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, cm.Deleted)
	require.Empty(t, cm.Author, "author-less placeholder carries no username")

	list, total, err := reg.ListComments(ctx, models.TypeArticle, a.ID, 1, 10, false)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, list, 2, "listing must agree with the total")
	require.Equal(t, reply.ID, list[0].ID)
	require.Equal(t, parent.ID, *list[0].ParentID)

	t.Run("admin may still force-delete the placeholder", func(t *testing.T) {
		res, err := co.ForceDeleteComment(ctx, parent.ID, admin)
		require.NoError(t, err)
		require.True(t, res.HardDeleted)
	})
}

// A comment the author had already soft-deleted is left alone by the user
// cascade and not counted a second time.
func TestDeleteUserLeavesExistingPlaceholders(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	other := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, other.ID, "first")
	parent := testutil.CreateComment(t, dbc, author.ID, a.ID, nil)
	testutil.CreateComment(t, dbc, other.ID, a.ID, &parent.ID)

	co := cascade.NewCoordinator(dbc)
	res, err := co.DeleteComment(ctx, parent.ID, author)
	require.NoError(t, err)
	require.False(t, res.HardDeleted)

	tally, err := co.DeleteUser(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, 0, tally.CommentsHardDeleted)
	require.Equal(t, 0, tally.CommentsSoftDeleted)

	cm, err := content.NewRegistry(dbc).CommentByID(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, cm.Deleted)
}

func TestDeleteContentRemovesThreadAndLikes(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, dbc, testutil.NewEmail(1), models.RoleVisitor)
	fan := testutil.CreateUser(t, dbc, testutil.NewEmail(2), models.RoleVisitor)
	a := testutil.CreateArticle(t, dbc, author.ID, "doomed")

	tg := likes.NewToggler(dbc)
	_, err := tg.Toggle(ctx, fan.ID, models.TypeArticle, a.ID)
	require.NoError(t, err)

	parent := testutil.CreateComment(t, dbc, fan.ID, a.ID, nil)
	reply := testutil.CreateComment(t, dbc, author.ID, a.ID, &parent.ID)
	_, err = tg.Toggle(ctx, author.ID, models.TypeComment, parent.ID)
	require.NoError(t, err)

	res, err := cascade.NewCoordinator(dbc).DeleteContent(ctx, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, res.LikesRemoved)
	require.Equal(t, 2, res.CommentsRemoved)

	reg := content.NewRegistry(dbc)
	ok, err := reg.Exists(ctx, models.TypeArticle, a.ID)
	require.NoError(t, err)
	require.False(t, ok)
	for _, id := range []int64{parent.ID, reply.ID} {
		_, err := reg.CommentByID(ctx, id)
		require.ErrorIs(t, err, content.ErrNotFound)
	}

	rep, err := consistency.NewAuditor(dbc).Audit(ctx)
	require.NoError(t, err)
	require.True(t, rep.Consistent)
}

func TestDeleteContentGuards(t *testing.T) {
	dbc := testutil.OpenDB(t)
	ctx := context.Background()
	co := cascade.NewCoordinator(dbc)

	_, err := co.DeleteContent(ctx, models.TypeComment, 1)
	require.ErrorIs(t, err, content.ErrInvalidContentType)

	_, err = co.DeleteContent(ctx, models.TypeArticle, 404)
	require.ErrorIs(t, err, content.ErrNotFound)
}
