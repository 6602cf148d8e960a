// message.go
//
// Fixed-layout market message.  The wire form is exactly 29 bytes,
// little-endian, field order: type, symbol, price, quantity, timestamp.
// Fixed size is the point: the receiver can reject a datagram by length
// alone, and the ring buffer moves the struct by value with no pointer
// chasing and no allocation.

package feed

import (
	"encoding/binary"
	"errors"
	"time"
)

// EncodedSize is the exact wire length of one message.
const EncodedSize = 29

// TypeTrade is the only message type the load generator emits today.
const TypeTrade = 1

// ErrShortBuffer reports an Encode destination or Decode source smaller
// than EncodedSize.
var ErrShortBuffer = errors.New("feed: buffer shorter than encoded message")

// priceScale is the fixed-point multiplier: four implied decimals.
const priceScale = 10000

// Message is one market update.  Price is fixed-point with four implied
// decimal places; Symbol is zero-padded ASCII; Timestamp is unix
// seconds.
type Message struct {
	Type      uint8
	Symbol    [8]byte
	Price     uint64
	Quantity  uint32
	Timestamp uint64
}

// NewMessage builds a trade message for symbol at price with the given
// quantity, stamped with the current time.  Symbols longer than eight
// bytes are truncated.
func NewMessage(symbol string, price float64, quantity uint32) Message {
	m := Message{
		Type:      TypeTrade,
		Price:     uint64(price * priceScale),
		Quantity:  quantity,
		Timestamp: uint64(time.Now().Unix()),
	}
	n := len(symbol)
	if n > len(m.Symbol) {
		n = len(m.Symbol)
	}
	copy(m.Symbol[:n], symbol)
	return m
}

// Encode writes the 29-byte wire form into dst.
func (m *Message) Encode(dst []byte) error {
	if len(dst) < EncodedSize {
		return ErrShortBuffer
	}
	dst[0] = m.Type
	copy(dst[1:9], m.Symbol[:])
	binary.LittleEndian.PutUint64(dst[9:17], m.Price)
	binary.LittleEndian.PutUint32(dst[17:21], m.Quantity)
	binary.LittleEndian.PutUint64(dst[21:29], m.Timestamp)
	return nil
}

// DecodeMessage parses the 29-byte wire form.
func DecodeMessage(src []byte) (Message, error) {
	var m Message
	if len(src) < EncodedSize {
		return m, ErrShortBuffer
	}
	m.Type = src[0]
	copy(m.Symbol[:], src[1:9])
	m.Price = binary.LittleEndian.Uint64(src[9:17])
	m.Quantity = binary.LittleEndian.Uint32(src[17:21])
	m.Timestamp = binary.LittleEndian.Uint64(src[21:29])
	return m, nil
}

// PriceFloat converts the fixed-point price back to a float for display
// paths.  Hot paths should stay in fixed-point.
func (m *Message) PriceFloat() float64 {
	return float64(m.Price) / priceScale
}

// SymbolString returns the symbol with trailing zero padding stripped.
func (m *Message) SymbolString() string {
	n := len(m.Symbol)
	for n > 0 && m.Symbol[n-1] == 0 {
		n--
	}
	return string(m.Symbol[:n])
}
