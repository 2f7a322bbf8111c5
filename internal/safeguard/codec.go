package safeguard

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

type persisted struct {
	Limits       Limits          `json:"limits"`
	Pending      *pendingLimits  `json:"pending,omitempty"`
	CoolingUntil *time.Time      `json:"coolingUntil,omitempty"`
	Day          *time.Time      `json:"day,omitempty"`
	WageredToday decimal.Decimal `json:"wageredToday"`
	LostToday    decimal.Decimal `json:"lostToday"`
}

func (g *Guard) Marshal() ([]byte, error) {
	p := persisted{
		Limits:       g.limits,
		Pending:      g.pending,
		CoolingUntil: g.coolingUntil,
		WageredToday: g.wageredToday,
		LostToday:    g.lostToday,
	}
	if !g.day.IsZero() {
		day := g.day
		p.Day = &day
	}
	return sonic.Marshal(p)
}

func (g *Guard) Unmarshal(blob []byte) error {
	var p persisted
	if err := sonic.Unmarshal(blob, &p); err != nil {
		return err
	}
	g.limits = p.Limits
	g.pending = p.Pending
	g.coolingUntil = p.CoolingUntil
	g.wageredToday = p.WageredToday
	g.lostToday = p.LostToday
	g.day = time.Time{}
	if p.Day != nil {
		g.day = *p.Day
	}
	return nil
}
