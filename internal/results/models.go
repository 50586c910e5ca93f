package results

import (
	"fmt"
	"time"
)

// Run is one invocation of the BLER evaluator.
type Run struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:100;index" json:"name"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
	Points    []Point   `gorm:"constraint:OnDelete:CASCADE" json:"points"`
}

func (Run) TableName() string { return "bler_runs" }

// Point is the measured block error rate for one code and SNR.
type Point struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	RunID      uint    `gorm:"index;not null" json:"run_id"`
	K          int     `gorm:"index:idx_code" json:"k"`
	E          int     `gorm:"index:idx_code" json:"e"`
	N          int     `json:"n"`
	L          int     `gorm:"index:idx_code" json:"l"`
	NMax       int     `json:"n_max"`
	CRCLen     int     `json:"crc_len"`
	Mode       string  `gorm:"size:16" json:"mode"`
	EbN0dB     float64 `gorm:"column:ebn0_db" json:"ebn0_db"`
	Erase      float64 `gorm:"column:erase_prob" json:"erase_prob"`
	Blocks     int     `json:"blocks"`
	Errors     int     `json:"errors"`
	Undetected int     `json:"undetected"`
	AvgMicros  float64 `json:"avg_us"`
}

func (Point) TableName() string { return "bler_points" }

// BLER is Errors/Blocks, or 0 for an empty point.
func (p Point) BLER() float64 {
	if p.Blocks == 0 {
		return 0
	}
	return float64(p.Errors) / float64(p.Blocks)
}

// IsValid reports whether the point can be stored.
func (p Point) IsValid() bool {
	return p.K > 0 && p.E >= p.K && p.Blocks >= 0 && p.Errors >= 0 && p.Errors <= p.Blocks
}

func (p Point) String() string {
	return fmt.Sprintf("K=%d E=%d L=%d %.2fdB BLER=%.3g (%d/%d)", p.K, p.E, p.L, p.EbN0dB, p.BLER(), p.Errors, p.Blocks)
}
