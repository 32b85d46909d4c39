package session

import (
	"encoding/gob"
	"net/http"

	"storefront/internal/domain/model"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "storefront_session"

	cartKey  = "cart"
	adminKey = "admin"
)

// 1回だけ表示するメッセージ
type Flash struct {
	Category string // success / info / warning / danger
	Message  string
}

func init() {
	//cookieに入れる型はgobに登録が必要
	gob.Register(model.Cart{})
	gob.Register(Flash{})
}

// 署名付きcookieのセッション
type Store struct {
	store sessions.Store
}

// secretで署名する。secureはprodでtrue
func NewStore(secret string, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: cs}
}

// リクエストごとのセッション
type Session struct {
	s *sessions.Session
	r *http.Request
	w http.ResponseWriter
}

// Get はセッションを取り出す。cookieが壊れていても新しいセッションを返す
func (st *Store) Get(r *http.Request, w http.ResponseWriter) *Session {
	//デコードに失敗しても新しいセッションが返る（同じリクエスト内では同じもの）
	s, _ := st.store.Get(r, cookieName)
	if s == nil {
		s = sessions.NewSession(st.store, cookieName)
	}
	return &Session{s: s, r: r, w: w}
}

// カート。無ければ空のカート
func (s *Session) Cart() model.Cart {
	c, ok := s.s.Values[cartKey].(model.Cart)
	if !ok || c == nil {
		c = model.Cart{}
		s.s.Values[cartKey] = c
	}
	return c
}

func (s *Session) SetCart(c model.Cart) {
	s.s.Values[cartKey] = c
}

// 管理者トークン（無ければ空文字）
func (s *Session) AdminToken() string {
	t, _ := s.s.Values[adminKey].(string)
	return t
}

func (s *Session) SetAdminToken(token string) {
	s.s.Values[adminKey] = token
}

func (s *Session) ClearAdmin() {
	delete(s.s.Values, adminKey)
}

func (s *Session) AddFlash(category, message string) {
	s.s.AddFlash(Flash{Category: category, Message: message})
}

// Flashes は溜まったメッセージを取り出して消す（Saveが必要）
func (s *Session) Flashes() []Flash {
	var out []Flash
	for _, v := range s.s.Flashes() {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}

// レスポンスを書く前に呼ぶ
func (s *Session) Save() error {
	return s.s.Save(s.r, s.w)
}
