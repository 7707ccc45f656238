package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/caltrack/internal/backup"
	"github.com/julianstephens/caltrack/internal/config"
	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/docstore"
	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/models"
	"github.com/julianstephens/caltrack/internal/storage"
)

// ErrNoActiveUser is returned by commands that need a signed-in user
var ErrNoActiveUser = errors.New("no active user, run 'caltrack user login <name>' first")

type Context struct {
	Provider  storage.Provider
	Store     *docstore.Store
	Options   config.Options
	ConfigDir string

	// Interactive enables huh forms; commands fall back to flags without it
	Interactive bool
	Out         io.Writer
	Now         func() time.Time
}

// NewContext wires a docstore over provider using opts
func NewContext(provider storage.Provider, opts config.Options) *Context {
	return &Context{
		Provider:  provider,
		Store:     docstore.New(provider, opts.StoreOptions()...),
		Options:   opts,
		ConfigDir: config.ConfigDir(opts),
		Out:       os.Stdout,
		Now:       time.Now,
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// BackupManager returns the backup manager for the active provider
func (c *Context) BackupManager() *backup.Manager {
	return backup.NewManager(c.Provider, c.ConfigDir, c.Store.Keys().Namespace)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Provider.(*storage.MemoryStore); ok {
		return
	}
	if _, err := c.BackupManager().CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ActiveUser returns the signed-in user or ErrNoActiveUser
func (c *Context) ActiveUser() (models.User, error) {
	res := c.Store.ActiveUser()
	switch res.Status {
	case docstore.StatusOK:
		return res.Value, nil
	case docstore.StatusFailed:
		return models.User{}, fmt.Errorf("failed to read active user: %w", res.Err)
	default:
		return models.User{}, ErrNoActiveUser
	}
}

// ParseDate accepts YYYY-MM-DD, "today" or "yesterday"; empty means today
func (c *Context) ParseDate(s string) (string, error) {
	now := c.Now()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now.Format(constants.DateFormat), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	}

	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid date format, use YYYY-MM-DD, 'today' or 'yesterday': %w", err)
	}
	return t.Format(constants.DateFormat), nil
}
