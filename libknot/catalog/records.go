package catalog

import (
	"github.com/2x3systems/goknot/goknot"
	"github.com/gogo/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// CatalogState is stored under gCatalogStateKey.
type CatalogState struct {
	MajorVers  int32  `protobuf:"varint,1,opt,name=major_vers,proto3" json:"major_vers,omitempty"`
	MinorVers  int32  `protobuf:"varint,2,opt,name=minor_vers,proto3" json:"minor_vers,omitempty"`
	NumEntries uint64 `protobuf:"varint,3,opt,name=num_entries,proto3" json:"num_entries,omitempty"`
	Seeded     bool   `protobuf:"varint,4,opt,name=seeded,proto3" json:"seeded,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

// KnotRecord is the stored form of a goknot.KnotEntry.
type KnotRecord struct {
	Name           string  `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	CrossingNumber int32   `protobuf:"varint,2,opt,name=crossing_number,proto3" json:"crossing_number,omitempty"`
	Exps           []int32 `protobuf:"zigzag32,3,rep,packed,name=exps,proto3" json:"exps,omitempty"`
	Coeffs         []int64 `protobuf:"zigzag64,4,rep,packed,name=coeffs,proto3" json:"coeffs,omitempty"`
	Arcs           []int32 `protobuf:"varint,5,rep,packed,name=arcs,proto3" json:"arcs,omitempty"`
	Signs          []int32 `protobuf:"zigzag32,6,rep,packed,name=signs,proto3" json:"signs,omitempty"`
}

func (m *KnotRecord) Reset()         { *m = KnotRecord{} }
func (m *KnotRecord) String() string { return proto.CompactTextString(m) }
func (*KnotRecord) ProtoMessage()    {}

func recordFromEntry(entry *goknot.KnotEntry) *KnotRecord {
	rec := &KnotRecord{
		Name:           entry.Name,
		CrossingNumber: entry.CrossingNumber,
		Exps:           make([]int32, len(entry.Alexander)),
		Coeffs:         make([]int64, len(entry.Alexander)),
		Arcs:           make([]int32, 0, 4*len(entry.PD)),
		Signs:          make([]int32, len(entry.PD)),
	}
	for i, Ti := range entry.Alexander {
		rec.Exps[i] = Ti.Exp
		rec.Coeffs[i] = Ti.Coeff
	}
	for i, Xi := range entry.PD {
		rec.Arcs = append(rec.Arcs, Xi.Arcs[:]...)
		rec.Signs[i] = int32(Xi.Sign)
	}
	return rec
}

func (m *KnotRecord) entry() (goknot.KnotEntry, error) {
	if len(m.Exps) != len(m.Coeffs) || len(m.Arcs) != 4*len(m.Signs) {
		return goknot.KnotEntry{}, errors.Wrapf(goknot.ErrUnmarshal, "knot record %q is malformed", m.Name)
	}
	entry := goknot.KnotEntry{
		Name:           m.Name,
		CrossingNumber: m.CrossingNumber,
		Alexander:      make(goknot.Polynomial, len(m.Exps)),
		PD:             make(goknot.PDCode, len(m.Signs)),
	}
	for i := range m.Exps {
		entry.Alexander[i] = goknot.Term{Exp: m.Exps[i], Coeff: m.Coeffs[i]}
	}
	for i := range entry.PD {
		copy(entry.PD[i].Arcs[:], m.Arcs[4*i:])
		entry.PD[i].Sign = goknot.Sign(m.Signs[i])
	}
	return entry, nil
}

// encodeRecord marshals and compresses rec into a value.
func encodeRecord(rec *KnotRecord) ([]byte, error) {
	buf, err := proto.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, buf), nil
}

func decodeRecord(val []byte) (goknot.KnotEntry, error) {
	buf, err := snappy.Decode(nil, val)
	if err != nil {
		return goknot.KnotEntry{}, errors.Wrap(goknot.ErrUnmarshal, err.Error())
	}
	var rec KnotRecord
	if err = proto.Unmarshal(buf, &rec); err != nil {
		return goknot.KnotEntry{}, errors.Wrap(goknot.ErrUnmarshal, err.Error())
	}
	return rec.entry()
}

func (m *CatalogState) marshal() ([]byte, error) {
	return proto.Marshal(m)
}

func (m *CatalogState) unmarshal(buf []byte) error {
	m.Reset()
	return proto.Unmarshal(buf, m)
}
