package likes

import (
	"context"
	"database/sql"
	"fmt"

	"gamehub/internal/content"
	"gamehub/internal/models"
)

// Toggler flips a like on or off. The ledger write and the counter
// adjustment commit as one sqlite transaction, so a toggle is never left
// half-applied.
type Toggler struct {
	db *sql.DB
}

func NewToggler(db *sql.DB) *Toggler {
	return &Toggler{db: db}
}

// ToggleResult is the user-visible outcome of a toggle.
type ToggleResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// Toggle likes the content if the user has no like on it, otherwise unlikes
// it. Returns content.ErrNotFound if the target does not exist. The unlike
// decrement floors at zero even if ledger and counter had already drifted.
func (tg *Toggler) Toggle(ctx context.Context, userID int64, t models.ContentType, contentID int64) (ToggleResult, error) {
	if !t.Valid() {
		return ToggleResult{}, fmt.Errorf("%w: %q", content.ErrInvalidContentType, t)
	}

	tx, err := tg.db.BeginTx(ctx, nil)
	if err != nil {
		return ToggleResult{}, err
	}
	defer tx.Rollback()

	reg := content.NewRegistry(tx)
	led := NewLedger(tx)

	ok, err := reg.Exists(ctx, t, contentID)
	if err != nil {
		return ToggleResult{}, err
	}
	if !ok {
		return ToggleResult{}, fmt.Errorf("%s %d: %w", t, contentID, content.ErrNotFound)
	}

	liked, err := led.IsLikedBy(ctx, userID, t, contentID)
	if err != nil {
		return ToggleResult{}, err
	}

	var res ToggleResult
	if liked {
		if err := led.Remove(ctx, userID, t, contentID); err != nil {
			return ToggleResult{}, err
		}
		count, err := reg.AdjustLikeCount(ctx, t, contentID, -1)
		if err != nil {
			return ToggleResult{}, err
		}
		res = ToggleResult{Liked: false, LikeCount: count}
	} else {
		if _, err := led.Record(ctx, userID, t, contentID); err != nil {
			// A racing like between our check and insert surfaces here as
			// ErrDuplicate; the caller may treat it as converged state.
			return ToggleResult{}, err
		}
		count, err := reg.AdjustLikeCount(ctx, t, contentID, 1)
		if err != nil {
			return ToggleResult{}, err
		}
		res = ToggleResult{Liked: true, LikeCount: count}
	}

	if err := tx.Commit(); err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}

// Status reports the liked flag for a user (0 = anonymous) together with the
// stored counter.
func (tg *Toggler) Status(ctx context.Context, userID int64, t models.ContentType, contentID int64) (ToggleResult, error) {
	reg := content.NewRegistry(tg.db)
	led := NewLedger(tg.db)

	count, err := reg.LikeCount(ctx, t, contentID)
	if err != nil {
		return ToggleResult{}, err
	}
	liked, err := led.IsLikedBy(ctx, userID, t, contentID)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Liked: liked, LikeCount: count}, nil
}
