package server

import (
	"fmt"

	"github.com/ahaustein/cedar/lib/store"
	"github.com/ahaustein/cedar/rpc/common"
)

func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(req *common.Message, store store.IStore) *common.Message {
	// Check for nil store
	if store == nil {
		return common.NewErrorResponse("handler: store is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTKVSet:
		err := store.Set(req.Key, req.Value)
		return common.NewSetResponse(err)
	case common.MsgTKVGet:
		val, ok, err := store.Get(req.Key)
		return common.NewGetResponse(val, ok, err)
	case common.MsgTKVDelete:
		removed, err := store.Delete(req.Key)
		return common.NewDeleteResponse(removed, err)
	case common.MsgTKVHas:
		ok, err := store.Has(req.Key)
		return common.NewHasResponse(ok, err)
	case common.MsgTKVKeys:
		keys, err := store.Keys()
		return common.NewKeysResponse(keys, err)
	case common.MsgTZAdd:
		inserted, err := store.ZAdd(req.Key, req.Member, req.Score)
		return common.NewZAddResponse(inserted, err)
	case common.MsgTZScore:
		score, ok, err := store.ZScore(req.Key, req.Member)
		return common.NewZScoreResponse(score, ok, err)
	case common.MsgTZRem:
		removed, err := store.ZRem(req.Key, req.Member)
		return common.NewZRemResponse(removed, err)
	case common.MsgTZRank:
		rank, ok, err := store.ZRank(req.Key, req.Member)
		return common.NewZRankResponse(rank, ok, err)
	case common.MsgTZCard:
		count, err := store.ZCard(req.Key)
		return common.NewZCardResponse(count, err)
	case common.MsgTZQuery:
		entries, err := store.ZQuery(req.Key, req.Score, req.Member, req.Offset, req.Limit)
		return common.NewZQueryResponse(entries, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC IStoreAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
