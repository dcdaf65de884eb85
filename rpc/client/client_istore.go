package client

import (
	"fmt"

	"github.com/ahaustein/cedar/lib/store"
	"github.com/ahaustein/cedar/rpc/common"
	"github.com/ahaustein/cedar/rpc/serializer"
	"github.com/ahaustein/cedar/rpc/transport"
)

// NewRPCStore creates a new RPC store
// The function takes a shard ID, a config, a transport and a serializer as parameters
// It returns a store.IStore and an error
func NewRPCStore(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (store.IStore, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC store
	s := rpcStore{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC store
	return &s, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcStore) Set(key string, value []byte) (err error) {
	req := common.NewSetRequest(key, value)
	_, err = invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	return err
}

func (i *rpcStore) Get(key string) (value []byte, loaded bool, err error) {
	req := common.NewGetRequest(key)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, false, err
	}
	return resp.Value, resp.Ok, nil
}

func (i *rpcStore) Delete(key string) (removed bool, err error) {
	req := common.NewDeleteRequest(key)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (i *rpcStore) Has(key string) (loaded bool, err error) {
	req := common.NewHasRequest(key)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (i *rpcStore) Keys() (keys []string, err error) {
	req := common.NewKeysRequest()
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Keys, nil
}

func (i *rpcStore) ZAdd(key, member string, score float64) (inserted bool, err error) {
	req := common.NewZAddRequest(key, member, score)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (i *rpcStore) ZScore(key, member string) (score float64, loaded bool, err error) {
	req := common.NewZScoreRequest(key, member)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return 0, false, err
	}
	return resp.Score, resp.Ok, nil
}

func (i *rpcStore) ZRem(key, member string) (removed bool, err error) {
	req := common.NewZRemRequest(key, member)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (i *rpcStore) ZRank(key, member string) (rank int64, loaded bool, err error) {
	req := common.NewZRankRequest(key, member)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return 0, false, err
	}
	return resp.Count, resp.Ok, nil
}

func (i *rpcStore) ZCard(key string) (count int64, err error) {
	req := common.NewZCardRequest(key)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (i *rpcStore) ZQuery(key string, score float64, member string, offset, limit int64) (entries []store.ScoredMember, err error) {
	req := common.NewZQueryRequest(key, score, member, offset, limit)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		return []store.ScoredMember{}, nil
	}
	return resp.Entries, nil
}

// GetStoreInfo is not implemented for rpc
func (i *rpcStore) GetStoreInfo() (info store.StoreInfo, err error) {
	return store.StoreInfo{}, fmt.Errorf("the GetStoreInfo() method is not implemented in the rpc client adapter")
}
