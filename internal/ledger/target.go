package ledger

import "time"

// Role роль сотрудника в том виде, в каком она хранится в профиле
type Role string

// RoleIntern единственная роль с сокращенной нормой
const RoleIntern Role = "estagiario"

// Tier уровень дневной нормы
type Tier int

const (
	TierStandard Tier = iota
	TierReduced
)

const (
	StandardTarget = 8 * time.Hour
	ReducedTarget  = StandardTarget / 2
)

var tierTargets = [...]time.Duration{
	TierStandard: StandardTarget,
	TierReduced:  ReducedTarget,
}

// TierFor выбирает уровень нормы по роли. Неизвестные роли получают стандартную норму.
func TierFor(role Role) Tier {
	if role == RoleIntern {
		return TierReduced
	}
	return TierStandard
}

// Target дневная норма уровня
func (t Tier) Target() time.Duration {
	if t < 0 || int(t) >= len(tierTargets) {
		return StandardTarget
	}
	return tierTargets[t]
}

// TargetDuration дневная норма для роли
func TargetDuration(role Role) time.Duration {
	return TierFor(role).Target()
}
