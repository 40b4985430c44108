package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/iudanet/modify/internal/client/api"
	"github.com/iudanet/modify/internal/client/auth"
	"github.com/iudanet/modify/internal/models"
)

const notSet = "-"

// explain добавляет подсказку к ошибкам, которые пользователь может исправить сам
func (c *Cli) explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrNetworkUnavailable):
		return fmt.Errorf("cannot reach Modify API at %s: %w", c.cfg.API.BaseURL, err)
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%w (run 'modify login' to sign in again)", err)
	case errors.Is(err, auth.ErrSessionChanged):
		return fmt.Errorf("%w, please retry", err)
	}
	return err
}

func str(p *string) string {
	if p == nil || *p == "" {
		return notSet
	}
	return *p
}

func num(p *int, unit string) string {
	if p == nil {
		return notSet
	}
	if unit == "" {
		return strconv.Itoa(*p)
	}
	return strconv.Itoa(*p) + " " + unit
}

func ghz(p *float64) string {
	if p == nil {
		return notSet
	}
	return strconv.FormatFloat(*p, 'f', -1, 64) + " GHz"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (c *Cli) printProfile(u *models.UserProfile) {
	data := pterm.TableData{
		{"ID", u.ID},
		{"Email", u.Email},
		{"Verified", yesNo(u.EmailVerified)},
		{"Display name", str(u.DisplayName)},
		{"Initials", u.Initials()},
		{"Avatar", str(u.AvatarURL)},
		{"Provider", providerLabel(u.AuthProvider)},
	}
	c.renderTable(data, false)
}

func providerLabel(p models.AuthProvider) string {
	switch {
	case !p.Valid():
		return string(p) + " (unknown)"
	case p.IsOAuth():
		return string(p) + " (OAuth)"
	}
	return string(p)
}

func (c *Cli) printHardware(hw *models.HardwareProfile) {
	if hw.IsEmpty() {
		c.io.Println("No hardware saved yet. Run 'modify hardware save' to add it.")
		return
	}
	data := pterm.TableData{
		{"GPU", str(hw.GPUModel)},
		{"VRAM", num(hw.VRAMMB, "MB")},
		{"CPU", str(hw.CPUModel)},
		{"Cores", num(hw.CPUCores, "")},
		{"CPU speed", ghz(hw.CPUSpeedGHz)},
		{"RAM", num(hw.RAMGB, "GB")},
		{"Tier", str(hw.HardwareTier)},
	}
	c.renderTable(data, false)
	if hw.HardwareRawText != nil && strings.TrimSpace(*hw.HardwareRawText) != "" {
		c.io.Println()
		c.io.Println("Raw specs:")
		c.io.Println(*hw.HardwareRawText)
	}
}

func (c *Cli) renderTable(data pterm.TableData, header bool) {
	out, err := pterm.DefaultTable.WithHasHeader(header).WithData(data).Srender()
	if err != nil {
		// таблица не отрисовалась, печатаем построчно
		for _, row := range data {
			c.io.Println(strings.Join(row, "  "))
		}
		return
	}
	c.io.Println(out)
}

func formatExpiry(exp, now time.Time) string {
	if exp.IsZero() {
		return "unknown"
	}
	remaining := exp.Sub(now)
	if remaining <= 0 {
		return fmt.Sprintf("%s (expired)", exp.Local().Format(time.RFC3339))
	}
	return fmt.Sprintf("%s (in %s)", exp.Local().Format(time.RFC3339), remaining.Round(time.Second))
}
