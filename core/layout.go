package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

// Fixed record sizes, discriminator and reserved padding included
const (
	DiscriminatorLen = 8

	MarketLen = DiscriminatorLen + 16*4 + 1 + 8 + 15
	VaultLen  = DiscriminatorLen + 16*5 + 1 + 8 + 15
	BidLen    = DiscriminatorLen + 16*3 + 8 + 8 + 2 + 1 + 1 + 8 + 8 + 8 + 16
	BorrowLen = DiscriminatorLen + 16*4 + 8 + 2 + 8 + 1 + 8 + 8 + 16
)

var (
	// ErrInvalidLayout buffer size or discriminator mismatch
	ErrInvalidLayout = errors.New("invalid record layout")

	marketDiscriminator = discriminator("Market")
	vaultDiscriminator  = discriminator("Vault")
	bidDiscriminator    = discriminator("BidOrder")
	borrowDiscriminator = discriminator("BorrowRecord")
)

func discriminator(kind string) []byte {
	h := sha256.Sum256([]byte("account:" + kind))
	return h[:DiscriminatorLen]
}

type layoutWriter struct {
	buf []byte
	off int
	err error
}

func newLayoutWriter(size int, disc []byte) *layoutWriter {
	w := &layoutWriter{buf: make([]byte, size)}
	w.off = copy(w.buf, disc)
	return w
}

func (w *layoutWriter) uuid(s string) {
	if w.err != nil {
		return
	}

	var id uuid.UUID
	if s != "" {
		if id, w.err = uuid.FromString(s); w.err != nil {
			return
		}
	}

	w.off += copy(w.buf[w.off:], id.Bytes())
}

func (w *layoutWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[w.off:], v)
	w.off += 8
}

func (w *layoutWriter) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
}

func (w *layoutWriter) u8(v uint8) {
	w.buf[w.off] = v
	w.off++
}

func (w *layoutWriter) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *layoutWriter) time(t time.Time) {
	var sec int64
	if !t.IsZero() {
		sec = t.Unix()
	}

	w.u64(uint64(sec))
}

func (w *layoutWriter) bytes() ([]byte, error) {
	return w.buf, w.err
}

type layoutReader struct {
	buf []byte
	off int
}

func newLayoutReader(data []byte, size int, disc []byte) (*layoutReader, error) {
	if len(data) != size || !bytes.Equal(data[:DiscriminatorLen], disc) {
		return nil, ErrInvalidLayout
	}

	return &layoutReader{buf: data, off: DiscriminatorLen}, nil
}

func (r *layoutReader) uuid() string {
	id := uuid.FromBytesOrNil(r.buf[r.off : r.off+16])
	r.off += 16
	if id == uuid.Nil {
		return ""
	}

	return id.String()
}

func (r *layoutReader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *layoutReader) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *layoutReader) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *layoutReader) bool() bool {
	return r.u8() != 0
}

func (r *layoutReader) time() time.Time {
	sec := int64(r.u64())
	if sec == 0 {
		return time.Time{}
	}

	return time.Unix(sec, 0).UTC()
}

// MarshalBinary fixed size encoding
func (m *Market) MarshalBinary() ([]byte, error) {
	w := newLayoutWriter(MarketLen, marketDiscriminator)
	w.uuid(m.ID)
	w.uuid(m.Authority)
	w.uuid(m.AssetID)
	w.uuid(m.VaultID)
	w.u8(m.DeriveVersion)
	w.time(m.CreatedAt)
	return w.bytes()
}

// UnmarshalBinary decode fixed size encoding
func (m *Market) UnmarshalBinary(data []byte) error {
	r, err := newLayoutReader(data, MarketLen, marketDiscriminator)
	if err != nil {
		return err
	}

	m.ID = r.uuid()
	m.Authority = r.uuid()
	m.AssetID = r.uuid()
	m.VaultID = r.uuid()
	m.DeriveVersion = r.u8()
	m.CreatedAt = r.time()
	return nil
}

// MarshalBinary fixed size encoding
func (v *Vault) MarshalBinary() ([]byte, error) {
	w := newLayoutWriter(VaultLen, vaultDiscriminator)
	w.uuid(v.ID)
	w.uuid(v.MarketID)
	w.uuid(v.Authority)
	w.uuid(v.CustodyAccount)
	w.uuid(v.AssetID)
	w.u8(v.DeriveVersion)
	w.time(v.CreatedAt)
	return w.bytes()
}

// UnmarshalBinary decode fixed size encoding
func (v *Vault) UnmarshalBinary(data []byte) error {
	r, err := newLayoutReader(data, VaultLen, vaultDiscriminator)
	if err != nil {
		return err
	}

	v.ID = r.uuid()
	v.MarketID = r.uuid()
	v.Authority = r.uuid()
	v.CustodyAccount = r.uuid()
	v.AssetID = r.uuid()
	v.DeriveVersion = r.u8()
	v.CreatedAt = r.time()
	return nil
}

// MarshalBinary fixed size encoding
func (b *BidOrder) MarshalBinary() ([]byte, error) {
	w := newLayoutWriter(BidLen, bidDiscriminator)
	w.uuid(b.ID)
	w.uuid(b.Lender)
	w.uuid(b.MarketID)
	w.u64(b.Amount)
	w.u64(b.FilledAmount)
	w.u16(b.RateBps)
	w.bool(b.Active)
	w.bool(b.Cancelled)
	w.u64(b.Reclaimable)
	w.time(b.CreatedAt)
	w.u64(uint64(b.Version))
	return w.bytes()
}

// UnmarshalBinary decode fixed size encoding
func (b *BidOrder) UnmarshalBinary(data []byte) error {
	r, err := newLayoutReader(data, BidLen, bidDiscriminator)
	if err != nil {
		return err
	}

	b.ID = r.uuid()
	b.Lender = r.uuid()
	b.MarketID = r.uuid()
	b.Amount = r.u64()
	b.FilledAmount = r.u64()
	b.RateBps = r.u16()
	b.Active = r.bool()
	b.Cancelled = r.bool()
	b.Reclaimable = r.u64()
	b.CreatedAt = r.time()
	b.Version = int64(r.u64())
	return nil
}

// MarshalBinary fixed size encoding
func (b *BorrowRecord) MarshalBinary() ([]byte, error) {
	w := newLayoutWriter(BorrowLen, borrowDiscriminator)
	w.uuid(b.ID)
	w.uuid(b.Borrower)
	w.uuid(b.MarketID)
	w.uuid(b.BidID)
	w.u64(b.Principal)
	w.u16(b.RateBps)
	w.time(b.StartTime)
	w.bool(b.Repaid)
	w.time(b.RepaidAt)
	w.u64(uint64(b.Version))
	return w.bytes()
}

// UnmarshalBinary decode fixed size encoding
func (b *BorrowRecord) UnmarshalBinary(data []byte) error {
	r, err := newLayoutReader(data, BorrowLen, borrowDiscriminator)
	if err != nil {
		return err
	}

	b.ID = r.uuid()
	b.Borrower = r.uuid()
	b.MarketID = r.uuid()
	b.BidID = r.uuid()
	b.Principal = r.u64()
	b.RateBps = r.u16()
	b.StartTime = r.time()
	b.Repaid = r.bool()
	b.RepaidAt = r.time()
	b.Version = int64(r.u64())
	return nil
}
