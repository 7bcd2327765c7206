// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package accountsuc contains the accounts UseCase which manages the
// registration, authentication, and administration of user accounts.
// One-time codes (for confirming an e-mail address or resetting a
// forgotten password) are hashed before being stored, so a leaked
// database can not be used for taking over the accounts.
package accountsuc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/scram"
)

// codeHashIterations is used for one-time codes which live for a few
// minutes and are invalidated after a few failed attempts.
const codeHashIterations = 4096

var (
	// ErrInvalidCredentials is returned for both of unknown usernames
	// and wrong passwords, so usernames can not be enumerated.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidCode is returned when a one-time code is wrong, expired,
	// exhausted, or was never issued.
	ErrInvalidCode = errors.New("invalid or expired code")

	ErrBanned = errors.New("account is banned")
)

// UseCase represents the accounts use case. It holds a database
// connection pool, the users and tokens repositories, and the ports
// which are required for hashing passwords, issuing bearer tokens,
// and notifying users about their one-time codes.
type UseCase struct {
	pool     repo.Pool
	usersrp  repo.Users
	tokensrp repo.Tokens
	hasher   scram.Hasher
	issuer   TokenIssuer
	notifier Notifier

	hashIterations       int
	verificationLifetime time.Duration
	resetLifetime        time.Duration
	maxAttempts          int
	now                  func() time.Time
	genCode              func() (string, error)
}

// New instantiates an accounts use case.
func New(
	p repo.Pool,
	u repo.Users,
	t repo.Tokens,
	h scram.Hasher,
	ti TokenIssuer,
	n Notifier,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		usersrp:  u,
		tokensrp: t,
		hasher:   h,
		issuer:   ti,
		notifier: n,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.hashIterations == 0 {
		uc.hashIterations = 4096
	}
	if uc.verificationLifetime == 0 {
		uc.verificationLifetime = 24 * time.Hour
	}
	if uc.resetLifetime == 0 {
		uc.resetLifetime = 15 * time.Minute
	}
	if uc.maxAttempts == 0 {
		uc.maxAttempts = 5
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.genCode == nil {
		uc.genCode = randomCode
	}
	return uc, nil
}

// randomCode returns a uniformly distributed six digits code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RegisterInput contains the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult contains a bearer token and the logged in user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

func invalid(field string, reason fmt.Stringer) error {
	return cerr.Invalid(field, errors.New(reason.String()))
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", cerr.Invalid("email", errors.New("INVALID_EMAIL"))
	}
	return email, nil
}

// Register creates a new account with the User role and the New
// status. An e-mail confirmation code is sent to the registered
// address, so the account may be activated with ConfirmEmail.
func (a *UseCase) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if ue := model.ValidateUsername(in.Username); ue != model.UsernameOK {
		return nil, invalid("username", ue)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if pe := model.ValidatePassword(in.Password); pe != model.PasswordOK {
		return nil, invalid("password", pe)
	}
	hash, err := a.hasher.Hash(in.Password, "", a.hashIterations)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	var u *model.User
	var code string
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := a.usersrp.Tx(tx)
			unTaken, emTaken, err := q.Taken(ctx, in.Username, email)
			if err != nil {
				return err
			}
			switch {
			case unTaken:
				return cerr.Conflict(errors.New("username is taken"))
			case emTaken:
				return cerr.Conflict(errors.New("email is taken"))
			}
			u, err = q.Create(ctx, &model.User{
				Username:     in.Username,
				Email:        email,
				PasswordHash: hash,
				Role:         model.RoleUser,
				Status:       model.StatusNew,
			})
			if err != nil {
				return err
			}
			code, err = a.replaceToken(
				ctx, tx, u.ID, model.EmailVerificationToken,
				a.verificationLifetime,
			)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "registered a new account", log.User(u.ID, u.Username))
	if err = a.notifier.SendEmailConfirmation(ctx, u, code); err != nil {
		log.Error(
			ctx, "failed to send e-mail confirmation code",
			log.User(u.ID, u.Username), log.Err("err", err),
		)
	}
	return u, nil
}

// replaceToken generates a new one-time code and stores its hash as
// the only token of the userID user with the kind type.
func (a *UseCase) replaceToken(
	ctx context.Context,
	tx repo.Tx,
	userID int64,
	kind model.TokenKind,
	lifetime time.Duration,
) (string, error) {
	code, err := a.genCode()
	if err != nil {
		return "", err
	}
	hash, err := a.hasher.Hash(code, "", codeHashIterations)
	if err != nil {
		return "", fmt.Errorf("hashing code: %w", err)
	}
	err = a.tokensrp.Tx(tx).Replace(ctx, &model.Token{
		UserID:    userID,
		Kind:      kind,
		Hash:      hash,
		ExpiresAt: a.now().Add(lifetime),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// consumeToken checks code against the kind token of the userID user.
// Every attempt is counted before the code is verified, so concurrent
// guesses can not exceed the attempts limit. Tokens which are expired
// or exhausted their attempts are removed. After a successful check,
// the apply function and the token removal run in one transaction.
func (a *UseCase) consumeToken(
	ctx context.Context,
	userID int64,
	kind model.TokenKind,
	code string,
	apply func(context.Context, repo.Tx) error,
) error {
	return a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := a.tokensrp.Conn(c)
		t, err := q.Get(ctx, userID, kind)
		if err != nil {
			return invalidCode(err)
		}
		claimed := false
		if !t.Expired(a.now()) {
			claimed, err = q.ClaimAttempt(ctx, t.ID, a.maxAttempts)
			if err != nil {
				return err
			}
		}
		if !claimed {
			return invalidCode(q.Delete(ctx, t.ID))
		}
		ok, err := a.hasher.Verify(t.Hash, code)
		if err != nil {
			return fmt.Errorf("verifying code: %w", err)
		}
		if !ok {
			return cerr.BadRequest(ErrInvalidCode)
		}
		err = c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if err := a.tokensrp.Tx(tx).Delete(ctx, t.ID); err != nil {
				return err
			}
			return apply(ctx, tx)
		})
		if cerr.Is(err, http.StatusNotFound) {
			return invalidCode(err)
		}
		return err
	})
}

// invalidCode reports a missing token, or a nil err, as an invalid
// code and keeps other errors.
func invalidCode(err error) error {
	if err == nil || cerr.Is(err, http.StatusNotFound) {
		return cerr.BadRequest(ErrInvalidCode)
	}
	return err
}

// Login checks the given credentials and issues a bearer token.
// Unknown usernames and wrong passwords are indistinguishable.
func (a *UseCase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var u *model.User
	err := a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		u, err = a.usersrp.Conn(c).ByUsername(ctx, username)
		return err
	})
	if err != nil {
		if cerr.Is(err, http.StatusNotFound) {
			return nil, cerr.Authentication(ErrInvalidCredentials)
		}
		return nil, err
	}
	ok, err := a.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		log.Info(ctx, "failed login attempt", log.User(u.ID, u.Username))
		return nil, cerr.Authentication(ErrInvalidCredentials)
	}
	if u.IsBanned() {
		return nil, cerr.Authorization(ErrBanned)
	}
	token, exp, err := a.issuer.Issue(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate verifies a bearer token and returns its user.
// Users are reloaded, so deleted or banned accounts lose their access
// immediately and role changes are effective without a new login.
func (a *UseCase) Authenticate(ctx context.Context, token string) (*model.User, error) {
	id, err := a.issuer.Verify(ctx, token)
	if err != nil {
		return nil, cerr.Authentication(err)
	}
	var u *model.User
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = a.usersrp.Conn(c).ByID(ctx, id)
		return err
	})
	if err != nil {
		if cerr.Is(err, http.StatusNotFound) {
			return nil, cerr.Authentication(errors.New("user not found"))
		}
		return nil, err
	}
	if u.IsBanned() {
		return nil, cerr.Authorization(ErrBanned)
	}
	return u, nil
}

func (a *UseCase) byUsername(ctx context.Context, username string) (u *model.User, err error) {
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = a.usersrp.Conn(c).ByUsername(ctx, username)
		return err
	})
	return u, err
}

// ConfirmEmail consumes the e-mail confirmation code of the username
// user, marks its e-mail as confirmed, and activates new accounts.
func (a *UseCase) ConfirmEmail(ctx context.Context, username, code string) error {
	u, err := a.byUsername(ctx, username)
	if err != nil {
		if cerr.Is(err, http.StatusNotFound) {
			return cerr.BadRequest(ErrInvalidCode)
		}
		return err
	}
	if u.EmailConfirmed {
		return cerr.Conflict(errors.New("email is already confirmed"))
	}
	err = a.consumeToken(
		ctx, u.ID, model.EmailVerificationToken, code,
		func(ctx context.Context, tx repo.Tx) error {
			return a.usersrp.Tx(tx).ConfirmEmail(ctx, u.ID)
		},
	)
	if err != nil {
		return err
	}
	log.Info(ctx, "confirmed e-mail address", log.User(u.ID, u.Username))
	return nil
}

// ResendEmailConfirmation issues a fresh e-mail confirmation code for
// the username user, invalidating its previous code.
func (a *UseCase) ResendEmailConfirmation(ctx context.Context, username string) error {
	u, err := a.byUsername(ctx, username)
	if err != nil {
		return err
	}
	if u.EmailConfirmed {
		return cerr.Conflict(errors.New("email is already confirmed"))
	}
	var code string
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) (err error) {
			code, err = a.replaceToken(
				ctx, tx, u.ID, model.EmailVerificationToken,
				a.verificationLifetime,
			)
			return err
		})
	})
	if err != nil {
		return err
	}
	return a.notifier.SendEmailConfirmation(ctx, u, code)
}

// ForgotPassword sends a password reset code to the email address if
// it belongs to an account. Callers may not learn if the address was
// registered, because unknown addresses are not reported as errors.
func (a *UseCase) ForgotPassword(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	var u *model.User
	var code string
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = a.usersrp.Conn(c).ByEmail(ctx, email)
		if err != nil || u.IsBanned() {
			return err
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) (err error) {
			code, err = a.replaceToken(
				ctx, tx, u.ID, model.PasswordResetToken, a.resetLifetime,
			)
			return err
		})
	})
	switch {
	case cerr.Is(err, http.StatusNotFound):
		log.Debug(ctx, "password reset requested for an unknown e-mail")
		return nil
	case err != nil:
		return err
	case code == "":
		log.Info(ctx, "password reset requested by a banned account",
			log.User(u.ID, u.Username))
		return nil
	}
	if err = a.notifier.SendPasswordReset(ctx, u, code); err != nil {
		log.Error(
			ctx, "failed to send password reset code",
			log.User(u.ID, u.Username), log.Err("err", err),
		)
	}
	return nil
}

// ResetPassword consumes the password reset code which was sent to
// the email address and replaces the account password.
func (a *UseCase) ResetPassword(ctx context.Context, email, code, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if pe := model.ValidatePassword(password); pe != model.PasswordOK {
		return invalid("password", pe)
	}
	var u *model.User
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = a.usersrp.Conn(c).ByEmail(ctx, email)
		return err
	})
	if err != nil {
		if cerr.Is(err, http.StatusNotFound) {
			return cerr.BadRequest(ErrInvalidCode)
		}
		return err
	}
	hash, err := a.hasher.Hash(password, "", a.hashIterations)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	err = a.consumeToken(
		ctx, u.ID, model.PasswordResetToken, code,
		func(ctx context.Context, tx repo.Tx) error {
			return a.usersrp.Tx(tx).UpdatePassword(ctx, u.ID, hash)
		},
	)
	if err != nil {
		return err
	}
	log.Info(ctx, "reset the account password", log.User(u.ID, u.Username))
	return nil
}

// ChangePassword replaces the password of the actor after checking
// its current password.
func (a *UseCase) ChangePassword(ctx context.Context, actor *model.User, oldPassword, newPassword string) error {
	ok, err := a.hasher.Verify(actor.PasswordHash, oldPassword)
	if err != nil {
		return fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return cerr.Invalid("oldPassword", errors.New("WRONG_PASSWORD"))
	}
	if pe := model.ValidatePassword(newPassword); pe != model.PasswordOK {
		return invalid("newPassword", pe)
	}
	hash, err := a.hasher.Hash(newPassword, "", a.hashIterations)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return a.usersrp.Conn(c).UpdatePassword(ctx, actor.ID, hash)
	})
}

// GetUser returns the public details of the username user. The e-mail
// fields are only kept if the actor is the same user or an admin.
// The actor may be nil for anonymous requests.
func (a *UseCase) GetUser(ctx context.Context, actor *model.User, username string) (*model.User, error) {
	u, err := a.byUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	if !actor.IsAdmin() && (actor == nil || actor.ID != u.ID) {
		u.Email = ""
		u.EmailConfirmed = false
	}
	return u, nil
}

func requireAdmin(actor *model.User) error {
	if !actor.IsAdmin() {
		return cerr.Authorization(errors.New("admin role is required"))
	}
	return nil
}

// SetStatus bans or unbans the username user. Only admins may change
// the account statuses and they may not ban themselves.
func (a *UseCase) SetStatus(ctx context.Context, actor *model.User, username string, s model.AccountStatus) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return a.updateUser(ctx, username, func(ctx context.Context, q repo.UsersQueryer, u *model.User) error {
		if u.ID == actor.ID && s == model.StatusBanned {
			return cerr.BadRequest(errors.New("admins can not ban themselves"))
		}
		if err := q.SetStatus(ctx, u.ID, s); err != nil {
			return err
		}
		log.Info(
			ctx, "changed account status",
			log.User(u.ID, u.Username), log.Actor(actor.ID, actor.Username),
			log.String("status", string(s)),
		)
		return nil
	})
}

// SetRole changes the role of the username user. Only admins may
// change the roles and they may not demote themselves.
func (a *UseCase) SetRole(ctx context.Context, actor *model.User, username string, r model.Role) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return a.updateUser(ctx, username, func(ctx context.Context, q repo.UsersQueryer, u *model.User) error {
		if u.ID == actor.ID && r != model.RoleAdmin {
			return cerr.BadRequest(errors.New("admins can not demote themselves"))
		}
		return q.SetRole(ctx, u.ID, r)
	})
}

func (a *UseCase) updateUser(
	ctx context.Context,
	username string,
	f func(context.Context, repo.UsersQueryer, *model.User) error,
) (u *model.User, err error) {
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := a.usersrp.Tx(tx)
			u, err = q.ByUsername(ctx, username)
			if err != nil {
				return err
			}
			if err = f(ctx, q, u); err != nil {
				return err
			}
			u, err = q.ByID(ctx, u.ID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// DeleteUser soft-deletes the username account. Users may delete their
// own accounts and admins may delete any account.
func (a *UseCase) DeleteUser(ctx context.Context, actor *model.User, username string) error {
	return a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := a.usersrp.Conn(c)
		u, err := q.ByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u.ID != actor.ID && !actor.IsAdmin() {
			return cerr.Authorization(
				errors.New("only admins may delete other accounts"),
			)
		}
		if err = q.Delete(ctx, u.ID); err != nil {
			return err
		}
		log.Info(
			ctx, "deleted an account",
			log.User(u.ID, u.Username), log.Actor(actor.ID, actor.Username),
		)
		return nil
	})
}

// PurgeExpiredTokens removes the expired one-time codes and returns
// their count.
func (a *UseCase) PurgeExpiredTokens(ctx context.Context) (n int64, err error) {
	err = a.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err = a.tokensrp.Conn(c).DeleteExpired(ctx, a.now())
		return err
	})
	return n, err
}
