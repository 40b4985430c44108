package models

import "time"

// HardwareProfile описывает сохраненную конфигурацию машины пользователя.
// Все поля опциональны: отсутствие значения означает "еще не профилировано".
type HardwareProfile struct {
	GPUModel        *string  `json:"gpu_model,omitempty"`
	CPUModel        *string  `json:"cpu_model,omitempty"`
	RAMGB           *int     `json:"ram_gb,omitempty"`
	VRAMMB          *int     `json:"vram_mb,omitempty"`
	CPUCores        *int     `json:"cpu_cores,omitempty"`
	CPUSpeedGHz     *float64 `json:"cpu_speed_ghz,omitempty"`
	HardwareTier    *string  `json:"hardware_tier,omitempty"`     // назначается сервером
	HardwareRawText *string  `json:"hardware_raw_text,omitempty"` // исходный вставленный текст
}

// Clone возвращает глубокую копию
func (h *HardwareProfile) Clone() *HardwareProfile {
	if h == nil {
		return nil
	}
	return &HardwareProfile{
		GPUModel:        clonePtr(h.GPUModel),
		CPUModel:        clonePtr(h.CPUModel),
		RAMGB:           clonePtr(h.RAMGB),
		VRAMMB:          clonePtr(h.VRAMMB),
		CPUCores:        clonePtr(h.CPUCores),
		CPUSpeedGHz:     clonePtr(h.CPUSpeedGHz),
		HardwareTier:    clonePtr(h.HardwareTier),
		HardwareRawText: clonePtr(h.HardwareRawText),
	}
}

// IsEmpty reports whether no hardware field has been captured yet.
func (h *HardwareProfile) IsEmpty() bool {
	if h == nil {
		return true
	}
	return h.GPUModel == nil && h.CPUModel == nil && h.RAMGB == nil && h.VRAMMB == nil &&
		h.CPUCores == nil && h.CPUSpeedGHz == nil && h.HardwareRawText == nil
}

// ConnectedAccount привязанная сторонняя учетная запись (0..N на пользователя)
type ConnectedAccount struct {
	ConnectedAt    *time.Time   `json:"connected_at,omitempty"`
	Provider       AuthProvider `json:"provider"`
	ProviderUserID string       `json:"provider_user_id,omitempty"`
	Email          string       `json:"email,omitempty"`
}
