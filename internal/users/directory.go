package users

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/HendryAvila/quickchat/internal/rules"
)

// Registration feedback lines.
const (
	UsernameOK        = "Username successfully captured"
	UsernameInvalid   = "Username is not correctly formatted, please ensure that your username contains an underscore and is no more than five characters in length."
	PasswordOK        = "Password successfully captured"
	PasswordInvalid   = "Password is not correctly formatted, please ensure that the password contains at least eight characters, a capital letter, a number, and a special character."
	CellphoneOK       = "Cellphone number successfully captured"
	CellphoneInvalid  = "Cellphone number is incorrectly formatted or does not contain an international code, please correct the number and try again."
	FirstNameOK       = "First name successfully captured"
	FirstNameInvalid  = "First name is invalid, please ensure it is not empty."
	LastNameOK        = "Last name successfully captured"
	LastNameInvalid   = "Last name is invalid, please ensure it is not empty."
	RegistrationOK    = "Registration successful"
	RegistrationAbort = "Registration aborted"

	UsernameTaken  = "Registration failed: Username already taken."
	CellphoneTaken = "Registration failed: Cellphone number is already in use."

	loginFailed = "Username & Password do not match our records, please try again."
)

// Feedback is the outcome of a registration attempt: one line per check
// plus a final success or abort line.
type Feedback struct {
	Lines      []string
	Registered bool
}

func (f Feedback) String() string {
	return strings.Join(f.Lines, "\n")
}

// Directory holds the registered users in memory and writes the whole
// set back to its Store on every successful registration.
type Directory struct {
	mu    sync.RWMutex
	store Store
	users []User
	log   *slog.Logger
}

// NewDirectory loads the user set from store. Entries that no longer pass
// the registration rules are skipped.
func NewDirectory(store Store, logger *slog.Logger) (*Directory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Directory{store: store, log: logger}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload replaces the in-memory set with the store's contents.
func (d *Directory) Reload() error {
	loaded, err := d.store.Load()
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	kept := make([]User, 0, len(loaded))
	for _, u := range loaded {
		if !u.Valid() {
			d.log.Warn("skipping invalid user record", "username", u.Username)
			continue
		}
		kept = append(kept, u)
	}

	d.mu.Lock()
	d.users = kept
	d.mu.Unlock()
	return nil
}

// Register validates all five fields and, only if every one passes, adds
// the user and saves the directory. Username and cellphone must not
// already be registered.
//
// Every field check runs regardless of earlier failures, so the feedback
// always carries five field lines followed by the outcome line.
func (d *Directory) Register(username, password, cellphone, firstName, lastName string) (Feedback, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Username == username {
			return Feedback{Lines: []string{UsernameTaken}}, nil
		}
		if u.Cellphone == cellphone {
			return Feedback{Lines: []string{CellphoneTaken}}, nil
		}
	}

	checks := []struct {
		ok    bool
		pass  string
		fail  string
		field string
	}{
		{rules.ValidUsername(username), UsernameOK, UsernameInvalid, "username"},
		{rules.ValidPassword(password), PasswordOK, PasswordInvalid, "password"},
		{rules.ValidPhoneNumber(cellphone), CellphoneOK, CellphoneInvalid, "cellphone"},
		{rules.ValidName(firstName), FirstNameOK, FirstNameInvalid, "first_name"},
		{rules.ValidName(lastName), LastNameOK, LastNameInvalid, "last_name"},
	}

	fb := Feedback{Lines: make([]string, 0, len(checks)+1)}
	valid := true
	for _, c := range checks {
		if c.ok {
			fb.Lines = append(fb.Lines, c.pass)
			continue
		}
		fb.Lines = append(fb.Lines, c.fail)
		valid = false
		d.log.Debug("registration field rejected", "field", c.field)
	}

	if !valid {
		fb.Lines = append(fb.Lines, RegistrationAbort)
		return fb, nil
	}

	next := append(append([]User(nil), d.users...), User{
		Username:  username,
		Password:  password,
		Cellphone: cellphone,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err := d.store.Save(next); err != nil {
		return Feedback{}, fmt.Errorf("saving users: %w", err)
	}
	d.users = next

	fb.Lines = append(fb.Lines, RegistrationOK)
	fb.Registered = true
	d.log.Info("user registered", "username", username)
	return fb, nil
}

// FindByUsername returns the user with the given username.
func (d *Directory) FindByUsername(name string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Username == name {
			return u, true
		}
	}
	return User{}, false
}

// FindByCellphone returns the user registered with the given number.
func (d *Directory) FindByCellphone(number string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Cellphone == number {
			return u, true
		}
	}
	return User{}, false
}

// Authenticate reports whether password exactly matches the stored
// password for username. Passwords are stored and compared in plaintext.
func (d *Directory) Authenticate(username, password string) bool {
	u, ok := d.FindByUsername(username)
	return ok && u.Password == password
}

// All returns a copy of the registered users in registration order.
func (d *Directory) All() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]User(nil), d.users...)
}

// LoginStatus renders the greeting shown after a login attempt.
func LoginStatus(u User, ok bool) string {
	if !ok {
		return loginFailed
	}
	return fmt.Sprintf("Welcome %s %s,\nit is great to see you.", u.FirstName, u.LastName)
}
