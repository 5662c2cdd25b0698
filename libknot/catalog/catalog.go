package catalog

import (
	"bytes"
	"context"
	"runtime"
	"sync"

	"github.com/2x3systems/goknot/goknot"
	"github.com/2x3systems/goknot/libknot/alexander"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	kEntryPrefix, AlexanderKey, Name => snappy(KnotRecord)
	...

AlexanderKey is the self-delimiting goknot.Polynomial key of a normalized Alexander polynomial, so all knots
sharing an invariant are adjacent and a prefix scan on kEntryPrefix+AlexanderKey finds exactly them.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	kEntryPrefix = byte(0x01)

	kMajorVers = 2026
	kMinorVers = 1
)

// catalog is a db wrapper for a table of knot types
type catalog struct {
	mu         sync.Mutex
	ctx        goknot.CatalogContext
	readOnly   bool
	stateDirty bool
	state      CatalogState
	db         *badger.DB
}

// OpenCatalog opens a new or existing knot catalog and attaches it to ctx.
//
// If opts.Seed is set, the prime knots of RolfsenTable are added once, the first time the catalog is opened
// for writing.
func OpenCatalog(ctx goknot.CatalogContext, opts goknot.CatalogOpts) (goknot.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(goknot.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(goknot.ErrBadCatalogParam, "opening %q: %v", opts.DbPathName, err)
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if errors.Is(err, badger.ErrKeyNotFound) {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}

	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Wrapf(goknot.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}
	if err == nil && opts.Seed && !cat.readOnly && !cat.state.Seeded {
		err = cat.seed()
	}
	if err == nil && !cat.readOnly {
		err = cat.flushState()
	}

	if err != nil {
		cat.Close()
		return nil, err
	}
	return cat, nil
}

func (cat *catalog) seed() error {
	engine := alexander.NewEngine(goknot.DefaultOptions())
	added := 0
	for _, k := range RolfsenTable {
		entry, err := k.Entry(context.Background(), engine)
		if err != nil {
			return err
		}
		wasAdded, err := cat.TryAddKnot(entry)
		if err != nil {
			return err
		}
		if wasAdded {
			added++
		}
	}
	cat.mu.Lock()
	cat.state.Seeded = true
	cat.stateDirty = true
	cat.mu.Unlock()
	klog.V(2).Infof("catalog: seeded %d of %d prime knots", added, len(RolfsenTable))
	return nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := cat.state.unmarshal(val); err != nil {
				return errors.Wrap(goknot.ErrUnmarshal, err.Error())
			}
			return nil
		})
	})
}

func (cat *catalog) flushState() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	if !cat.stateDirty || cat.db == nil {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := cat.state.marshal()
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) Close() error {
	var err error
	if !cat.readOnly {
		err = cat.flushState()
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	if cat.db != nil {
		if closeErr := cat.db.Close(); err == nil {
			err = closeErr
		}
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumEntries() int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return int64(cat.state.NumEntries)
}

func formEntryKey(key []byte, P goknot.Polynomial) []byte {
	key = append(key, kEntryPrefix)
	return P.Normalize().AppendKey(key)
}

// TryAddKnot adds entry, keyed by its normalized invariant and name.
func (cat *catalog) TryAddKnot(entry goknot.KnotEntry) (bool, error) {
	if cat.readOnly {
		return false, errors.Wrap(goknot.ErrBadCatalogParam, "catalog is read-only")
	}
	if entry.Name == "" || entry.Alexander.IsZero() {
		return false, errors.Wrap(goknot.ErrBadCatalogParam, "knot entry needs a name and a nonzero invariant")
	}
	entry.Alexander = entry.Alexander.Normalize()

	var keyBuf [128]byte
	key := formEntryKey(keyBuf[:0], entry.Alexander)
	key = append(key, entry.Name...)

	val, err := encodeRecord(recordFromEntry(&entry))
	if err != nil {
		return false, err
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	if cat.db == nil {
		return false, errors.Wrap(goknot.ErrBadCatalogParam, "catalog is closed")
	}

	wasAdded := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		wasAdded = true
		return txn.Set(key, val)
	})
	if err != nil {
		return false, err
	}
	if wasAdded {
		cat.state.NumEntries++
		cat.stateDirty = true
		klog.V(3).Infof("catalog: added %s (%v)", entry.Name, entry.Alexander)
	}
	return wasAdded, nil
}

// Lookup returns the entries whose invariant equals alexander up to a unit, in name order.
func (cat *catalog) Lookup(ctx context.Context, alexander goknot.Polynomial) ([]goknot.KnotEntry, error) {
	if alexander.IsZero() {
		return nil, nil
	}
	var keyBuf [128]byte
	prefix := formEntryKey(keyBuf[:0], alexander)

	var entries []goknot.KnotEntry
	err := cat.scan(ctx, prefix, func(entry goknot.KnotEntry) bool {
		entries = append(entries, entry)
		return true
	})
	return entries, err
}

// Select calls onHit with every entry of at most maxCrossings crossings until onHit returns false.
func (cat *catalog) Select(ctx context.Context, maxCrossings int32, onHit func(entry goknot.KnotEntry) bool) error {
	return cat.scan(ctx, []byte{kEntryPrefix}, func(entry goknot.KnotEntry) bool {
		if entry.CrossingNumber > maxCrossings {
			return true
		}
		return onHit(entry)
	})
}

func (cat *catalog) scan(ctx context.Context, prefix []byte, onHit func(entry goknot.KnotEntry) bool) error {
	cat.mu.Lock()
	db := cat.db
	cat.mu.Unlock()
	if db == nil {
		return errors.Wrap(goknot.ErrBadCatalogParam, "catalog is closed")
	}

	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         prefix,
		})
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry goknot.KnotEntry
			err := it.Item().Value(func(val []byte) error {
				var err error
				entry, err = decodeRecord(val)
				return err
			})
			if err != nil {
				return errors.Wrapf(err, "key %x", bytes.TrimPrefix(it.Item().Key(), prefix))
			}
			if !onHit(entry) {
				break
			}
		}
		return nil
	})
}
