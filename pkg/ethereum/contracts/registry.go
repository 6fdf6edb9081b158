package contracts

import (
	"errors"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DeathNotificationRegistryABI is the subset of the registry contract ABI the relayer calls.
const DeathNotificationRegistryABI = `[
	{"type":"function","name":"notifyDeath","stateMutability":"nonpayable",
	 "inputs":[{"name":"patientHash","type":"bytes32"},{"name":"deathTimestamp","type":"uint256"},{"name":"ipfsHash","type":"string"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"notificationCount","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"DeathNotified","anonymous":false,
	 "inputs":[{"name":"notificationId","type":"uint256","indexed":true},
	           {"name":"patientHash","type":"bytes32","indexed":true},
	           {"name":"notifier","type":"address","indexed":true},
	           {"name":"deathTimestamp","type":"uint256","indexed":false}]}
]`

const (
	// NotifyDeathMethod registers a death notification on chain
	NotifyDeathMethod = "notifyDeath"
	// DeathNotifiedEvent is emitted with the on-chain sequence id of a notification
	DeathNotifiedEvent = "DeathNotified"
)

var (
	registryOnce sync.Once
	registryABI  *abi.ABI
	registryErr  error
)

// RegistryABI returns the parsed registry ABI
func RegistryABI() (*abi.ABI, error) {
	registryOnce.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(DeathNotificationRegistryABI))
		if err != nil {
			registryErr = err
			return
		}
		registryABI = &parsed
	})
	return registryABI, registryErr
}

// ParseNotificationID returns the on-chain sequence id from the first
// DeathNotified log emitted by registry, or nil if there is none.
func ParseNotificationID(registry common.Address, logs []*types.Log) (*big.Int, error) {
	parsed, err := RegistryABI()
	if err != nil {
		return nil, err
	}
	event, ok := parsed.Events[DeathNotifiedEvent]
	if !ok {
		return nil, errors.New("registry ABI has no DeathNotified event")
	}

	for _, l := range logs {
		if l == nil || l.Address != registry || len(l.Topics) < 2 || l.Topics[0] != event.ID {
			continue
		}
		return new(big.Int).SetBytes(l.Topics[1].Bytes()), nil
	}
	return nil, nil
}
