package feed

import (
	"encoding/base64"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor est une position keyset dans l'ordre du feed (pas un offset) :
// les pages restent stables quand des posts plus récents arrivent.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// CursorAt place le curseur sur p (la page suivante commence juste après).
func CursorAt(p *domain.Post) Cursor {
	return Cursor{CreatedAt: p.CreatedAt.UTC(), ID: p.ID}
}

func (c Cursor) IsZero() bool { return c.ID == "" && c.CreatedAt.IsZero() }

// Encode produit la forme opaque échangée avec les clients ("" pour le début).
func (c Cursor) Encode() string {
	if c.IsZero() {
		return ""
	}
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (Cursor, error) {
	if s == "" {
		return Cursor{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return Cursor{}, ErrInvalidCursor
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{CreatedAt: t, ID: id}, nil
}

// After indique si p vient strictement après le curseur dans l'ordre du feed.
func (c Cursor) After(p *domain.Post) bool {
	if c.IsZero() {
		return true
	}
	return Compare(&domain.Post{ID: c.ID, CreatedAt: c.CreatedAt}, p) < 0
}

// Paginate lit au plus limit éléments après cursor. next est zéro en fin de séquence.
// limit <= 0 : pas de limite.
func Paginate(seq iter.Seq[*domain.Post], cursor Cursor, limit int) (page []*domain.Post, next Cursor) {
	more := false
	for p := range seq {
		if !cursor.After(p) {
			continue
		}
		if limit > 0 && len(page) == limit {
			more = true
			break
		}
		page = append(page, p)
	}
	if more {
		next = CursorAt(page[len(page)-1])
	}
	return page, next
}
