package repo

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/merge"
	"github.com/tony-hsu/gitlet/pkg/object"
	"github.com/tony-hsu/gitlet/pkg/workdir"
)

// MetaDirName is the repository directory inside the working tree.
const MetaDirName = workdir.MetaDir

// Branch is a named pointer to a commit. Each branch owns its Stage.
type Branch struct {
	Name  string
	Head  object.Hash
	Stage *Stage
}

// Repo is an opened repository. All branch, stage and message-index changes
// are held in memory until Save.
type Repo struct {
	RootDir string // working directory root; empty for non-OS filesystems
	Config  *Config

	fs        afero.Fs
	work      workdir.FileSystem
	hasher    object.Hasher
	blobs     *object.BlobStore
	commits   *object.CommitStore
	engine    *merge.Engine
	globalLog *GlobalLog
	log       logging.Logger
	now       func() time.Time

	branches map[string]*Branch
	current  string
	messages map[string][]object.Hash
}

// Option customizes Init and Open.
type Option func(*options)

type options struct {
	config *Config
	logger logging.Logger
	now    func() time.Time
}

// WithConfig sets the configuration written by Init. Open ignores it.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithLogger replaces logging.Default().
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now for commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) *options {
	o := &options{logger: logging.Default(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newRepo wires the stores for fs according to cfg.
func newRepo(fs afero.Fs, cfg *Config, o *options) (*Repo, error) {
	hasher, err := object.NewHasher(cfg.Core.Hash)
	if err != nil {
		return nil, err
	}
	storeOpts := []object.StoreOption{object.WithCompression(cfg.Core.Compression)}
	commits, err := object.NewCommitStore(object.NewStore(fs, path.Join(MetaDirName, "commits"), storeOpts...), cfg.Cache.Commits)
	if err != nil {
		return nil, err
	}
	blobs := object.NewBlobStore(object.NewStore(fs, path.Join(MetaDirName, "blobs"), storeOpts...))

	return &Repo{
		Config:    cfg,
		fs:        fs,
		work:      workdir.New(fs),
		hasher:    hasher,
		blobs:     blobs,
		commits:   commits,
		engine:    merge.NewEngine(blobs, hasher),
		globalLog: NewGlobalLog(fs, path.Join(MetaDirName, "global-log")),
		log:       o.logger,
		now:       o.now,
		branches:  make(map[string]*Branch),
		messages:  make(map[string][]object.Hash),
	}, nil
}

// Init creates a repository whose working tree is the root of fs. It
// records the root commit on the default branch and saves the initial
// state.
func Init(fs afero.Fs, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)
	if exists, err := afero.DirExists(fs, MetaDirName); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	} else if exists {
		return nil, ErrRepoExists
	}

	cfg := DefaultConfig()
	if o.config != nil {
		c := *o.config
		cfg = &c
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	if err := fs.MkdirAll(MetaDirName, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir: %w", err)
	}
	if err := WriteConfig(fs, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r, err := newRepo(fs, cfg, o)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	root := object.NewRootCommit(r.hasher, object.RootMessage, 0)
	if err := r.recordCommit(root); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	name := cfg.Core.DefaultBranch
	r.branches[name] = &Branch{Name: name, Head: root.ID, Stage: NewStage(root.ID)}
	r.current = name

	if err := r.Save(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	r.log.WithFields(logging.Fields{
		logging.BranchFieldKey: name,
		logging.CommitFieldKey: root.ID,
	}).Debug("init: repository created")
	return r, nil
}

// Open loads the repository whose working tree is the root of fs.
func Open(fs afero.Fs, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)
	if exists, err := afero.DirExists(fs, MetaDirName); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	} else if !exists {
		return nil, ErrNotARepository
	}

	cfg, err := ReadConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r, err := newRepo(fs, cfg, o)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if head := r.Head(); len(head) != r.hasher.HexLen() {
		return nil, fmt.Errorf("open: head %s does not match core.hash %q", head, cfg.Core.Hash)
	}
	return r, nil
}

// InitDir creates a repository in the operating-system directory dir.
func InitDir(dir string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	r, err := Init(afero.NewBasePathFs(afero.NewOsFs(), abs), opts...)
	if err != nil {
		return nil, err
	}
	r.RootDir = abs
	return r, nil
}

// Discover searches upward from dir for a .gitlet/ directory and opens the
// repository found there.
func Discover(dir string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, MetaDirName))
		if err == nil && info.IsDir() {
			r, err := Open(afero.NewBasePathFs(afero.NewOsFs(), cur), opts...)
			if err != nil {
				return nil, err
			}
			r.RootDir = cur
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, ErrNotARepository
		}
		cur = parent
	}
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch() string {
	return r.current
}

// Head returns the head commit id of the current branch.
func (r *Repo) Head() object.Hash {
	return r.currentBranch().Head
}

// Stage returns the current branch's stage. Callers must not modify it.
func (r *Repo) Stage() *Stage {
	return r.currentBranch().Stage
}

// Branches returns all branch names in sorted order.
func (r *Repo) Branches() []string {
	names := make([]string, 0, len(r.branches))
	for name := range r.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Branch returns the named branch, or nil.
func (r *Repo) Branch(name string) *Branch {
	return r.branches[name]
}

// ReadCommit returns the commit with the exact id.
func (r *Repo) ReadCommit(id object.Hash) (*object.Commit, error) {
	return r.commits.Get(id)
}

// ReadBlob returns the content stored under a blob id.
func (r *Repo) ReadBlob(id object.Hash) ([]byte, error) {
	return r.blobs.Get(id)
}

// ResolveCommit expands a full id or an unambiguous prefix of at least
// core.min_abbrev characters.
func (r *Repo) ResolveCommit(prefix string) (*object.Commit, error) {
	id, err := r.commits.Resolve(prefix, r.Config.Core.MinAbbrev)
	switch {
	case errors.Is(err, object.ErrNotFound):
		return nil, ErrCommitNotFound
	case errors.Is(err, object.ErrAmbiguous):
		return nil, ErrAmbiguousCommitID
	case err != nil:
		return nil, err
	}
	c, err := r.commits.Get(id)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", prefix, err)
	}
	return c, nil
}

func (r *Repo) currentBranch() *Branch {
	return r.branches[r.current]
}

func (r *Repo) headCommit() (*object.Commit, error) {
	c, err := r.commits.Get(r.Head())
	if err != nil {
		return nil, fmt.Errorf("read head commit: %w", err)
	}
	return c, nil
}

// recordCommit stores c, indexes its message and appends it to the global
// log. Branch pointers are left to the caller.
//
// Ids have one-second resolution, so an identical commit made again within
// the same second gets an existing id; it is stored and indexed only once.
func (r *Repo) recordCommit(c *object.Commit) error {
	for _, id := range r.messages[c.Message] {
		if id == c.ID {
			return nil
		}
	}
	if err := r.commits.Put(c); err != nil {
		return err
	}
	if err := r.globalLog.Append(FormatCommit(c)); err != nil {
		return err
	}
	r.messages[c.Message] = append(r.messages[c.Message], c.ID)
	return nil
}

// advance moves the current branch to id with a fresh stage.
func (r *Repo) advance(id object.Hash) {
	b := r.currentBranch()
	b.Head = id
	b.Stage = NewStage(id)
}

func cleanPath(p string) (string, error) {
	return workdir.Clean(p)
}
