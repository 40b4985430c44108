package cli

import (
	"context"

	pkgapi "github.com/iudanet/modify/pkg/api"
)

func hardwareRequestEmpty(r pkgapi.HardwareUpdateRequest) bool {
	return r.GPUModel == nil && r.CPUModel == nil && r.RAMGB == nil && r.VRAMMB == nil &&
		r.CPUCores == nil && r.CPUSpeedGHz == nil && r.HardwareRawText == nil
}

func (c *Cli) runHardwareShow(ctx context.Context) error {
	c.header("Hardware")

	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}

	hw, err := c.session.FetchHardware(ctx)
	if err != nil {
		return c.explain(err)
	}
	c.printHardware(hw)
	return nil
}

// runHardwareSave сохраняет переданные поля; сервер сам пересчитывает tier
func (c *Cli) runHardwareSave(ctx context.Context, req pkgapi.HardwareUpdateRequest) error {
	c.header("Save Hardware")

	if !c.session.Snapshot().HasToken {
		return errNotLoggedIn
	}
	if hardwareRequestEmpty(req) {
		c.io.Println("Nothing to save. Pass at least one of --gpu, --vram, --cpu, --cores, --cpu-speed, --ram or --raw-file.")
		return nil
	}

	hw, err := c.session.SaveHardware(ctx, req)
	if err != nil {
		return c.explain(err)
	}

	c.success("Hardware saved")
	c.printHardware(hw)
	return nil
}
