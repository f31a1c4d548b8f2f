package snapshot

import (
	"encoding/binary"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/thetatoken/utxoledger/blockchain"
	"github.com/thetatoken/utxoledger/core"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "snapshot"})

// Magic identifies a chain export stream.
const Magic = "utxoledger-chain"

// Version of the export format.
const Version uint64 = 1

// maxRecordSize bounds a single record read from an export stream.
const maxRecordSize = 64 << 20

// Metadata is the first record of an export stream.
type Metadata struct {
	Magic   string
	Version uint64
	Tip     string
	Height  uint64
	Blocks  uint64
}

// ExportChain writes the chain to w as a snappy-framed stream: a Metadata
// record followed by every block from genesis to tip. Each record is an
// 8-byte big-endian length followed by the rlp encoding.
func ExportChain(chain *blockchain.ChainStore, w io.Writer) (*Metadata, error) {
	blocks, err := chain.Blocks()
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, core.NewError(core.ErrMissingChainState, nil, "nothing to export")
	}

	tip := blocks[0]
	metadata := &Metadata{
		Magic:   Magic,
		Version: Version,
		Tip:     tip.Hash,
		Height:  tip.Height,
		Blocks:  uint64(len(blocks)),
	}

	writer := snappy.NewBufferedWriter(w)
	if err := writeRecord(writer, metadata); err != nil {
		return nil, err
	}
	for i := len(blocks) - 1; i >= 0; i-- {
		if err := writeRecord(writer, blocks[i]); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, core.NewError(core.ErrIO, err, "failed to flush export")
	}

	logger.WithFields(log.Fields{"tip": metadata.Tip, "blocks": metadata.Blocks}).Info("Exported chain")
	return metadata, nil
}

func writeRecord(w io.Writer, value interface{}) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return core.NewError(core.ErrEncoding, err, "failed to encode record")
	}
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(raw)))
	if _, err := w.Write(size[:]); err != nil {
		return core.NewError(core.ErrIO, err, "failed to write record length")
	}
	if _, err := w.Write(raw); err != nil {
		return core.NewError(core.ErrIO, err, "failed to write record")
	}
	return nil
}

// readRecord reads one record into value. It returns io.EOF at a clean end
// of stream.
func readRecord(r io.Reader, value interface{}) error {
	var size [8]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		if err == io.EOF {
			return err
		}
		return core.NewError(core.ErrIO, err, "failed to read record length")
	}
	n := binary.BigEndian.Uint64(size[:])
	if n > maxRecordSize {
		return core.NewError(core.ErrEncoding, nil, "record of %d bytes exceeds limit", n)
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return core.NewError(core.ErrIO, errors.Wrap(err, "truncated record"), "failed to read record")
	}
	if err := rlp.DecodeBytes(raw, value); err != nil {
		return core.NewError(core.ErrEncoding, err, "failed to decode record")
	}
	return nil
}
