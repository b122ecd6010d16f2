package vault

import (
	"encoding/json"

	"github.com/iov-one/weave/errors"
)

// CollateralAsset lists the assets the vault accepts as collateral.
type CollateralAsset int32

const (
	// LPToken is a liquidity pool share token.
	LPToken CollateralAsset = 0
)

var collateralAssetNames = map[CollateralAsset]string{
	LPToken: "LP_TOKEN",
}

func (a CollateralAsset) String() string {
	if name, ok := collateralAssetNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validate returns an error if the value is not a known asset.
func (a CollateralAsset) Validate() error {
	if _, ok := collateralAssetNames[a]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown collateral asset %d", a)
	}
	return nil
}

// ParseCollateralAsset returns the asset of given name.
func ParseCollateralAsset(name string) (CollateralAsset, error) {
	for a, n := range collateralAssetNames {
		if n == name {
			return a, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown collateral asset %q", name)
}

func (a CollateralAsset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *CollateralAsset) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "collateral asset must be a string")
	}
	asset, err := ParseCollateralAsset(name)
	if err != nil {
		return err
	}
	*a = asset
	return nil
}
