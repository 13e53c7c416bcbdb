// Package flash keeps one-shot notices in a signed cookie session so they
// survive the redirect after a form post.
package flash

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/diewo77/invoicer/internal/keys"
)

const sessionName = "invoicer_session"

// Message types understood by the layout.
const (
	TypeSuccess = "success"
	TypeError   = "error"
)

type Message struct {
	Type    string
	Message string
}

func init() {
	gob.Register(Message{})
}

type Store struct {
	store sessions.Store
}

// NewStore signs session cookies with a key derived from secret.
func NewStore(secret string, secure bool) *Store {
	cs := sessions.NewCookieStore(keys.Derive(secret, keys.Flash))
	cs.Options.HttpOnly = true
	cs.Options.Secure = secure
	cs.Options.SameSite = http.SameSiteLaxMode
	cs.Options.Path = "/"
	return &Store{store: cs}
}

// Add queues a message for the next rendered page.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, typ, msg string) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil && session == nil {
		return err
	}
	session.AddFlash(Message{Type: typ, Message: msg})
	return session.Save(r, w)
}

// Pop returns and clears queued messages. It must run before the response
// body is written because clearing rewrites the cookie.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	session, err := s.store.Get(r, sessionName)
	if err != nil && session == nil {
		return nil
	}
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	var messages []Message
	for _, f := range flashes {
		if fm, ok := f.(Message); ok {
			messages = append(messages, fm)
		}
	}
	_ = session.Save(r, w)
	return messages
}
