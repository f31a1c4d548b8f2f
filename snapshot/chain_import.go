package snapshot

import (
	"io"

	"github.com/golang/snappy"
	log "github.com/sirupsen/logrus"

	"github.com/thetatoken/utxoledger/blockchain"
	"github.com/thetatoken/utxoledger/core"
	"github.com/thetatoken/utxoledger/store/database"
	"github.com/thetatoken/utxoledger/store/database/backend"
)

// ReadChain decodes an export stream and returns its metadata and blocks in
// genesis to tip order. Blocks are not validated.
func ReadChain(r io.Reader) (*Metadata, []*core.Block, error) {
	reader := snappy.NewReader(r)

	metadata := &Metadata{}
	if err := readRecord(reader, metadata); err != nil {
		if err == io.EOF {
			return nil, nil, core.NewError(core.ErrEncoding, nil, "empty export stream")
		}
		return nil, nil, err
	}
	if metadata.Magic != Magic || metadata.Version != Version {
		return nil, nil, core.NewError(core.ErrEncoding, nil, "unsupported export %v v%d", metadata.Magic, metadata.Version)
	}

	blocks := []*core.Block{}
	for {
		block := &core.Block{}
		err := readRecord(reader, block)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, block)
	}

	if uint64(len(blocks)) != metadata.Blocks {
		return nil, nil, core.NewError(core.ErrEncoding, nil, "export declares %d blocks, found %d", metadata.Blocks, len(blocks))
	}
	if len(blocks) == 0 || blocks[len(blocks)-1].Hash != metadata.Tip {
		return nil, nil, core.NewError(core.ErrEncoding, nil, "export does not end at declared tip %v", metadata.Tip)
	}
	return metadata, blocks, nil
}

// ImportChain rebuilds an exported chain in db, which must not hold a chain
// yet. The stream is fully validated in memory before anything is written.
func ImportChain(r io.Reader, db database.Database, auth core.Authorizer) (*blockchain.ChainStore, error) {
	if has, err := db.Has(blockchain.TipKey); err != nil {
		return nil, core.NewError(core.ErrIO, err, "failed to inspect target database")
	} else if has {
		return nil, core.NewError(core.ErrInvalidBlock, nil, "target database already holds a chain")
	}

	metadata, blocks, err := ReadChain(r)
	if err != nil {
		return nil, err
	}

	staging, err := replay(backend.NewMemDatabase(), blocks)
	if err != nil {
		return nil, err
	}
	if _, err := blockchain.ValidateChain(staging, auth); err != nil {
		return nil, err
	}

	chain, err := replay(db, blocks)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"tip": metadata.Tip, "blocks": metadata.Blocks}).Info("Imported chain")
	return chain, nil
}

func replay(db database.Database, blocks []*core.Block) (*blockchain.ChainStore, error) {
	chain, err := blockchain.OpenOrCreate(db, 0, func() (*core.Block, error) {
		return blocks[0], nil
	})
	if err != nil {
		return nil, err
	}
	for _, block := range blocks[1:] {
		if err := chain.Append(block); err != nil {
			return nil, err
		}
	}
	return chain, nil
}
