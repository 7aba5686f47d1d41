package lane

import (
	"github.com/samber/lo"
)

// Manager Lane管理器
// 功能：管理所有Lane实体，提供创建、查找、推进与统计功能
// 说明：车道按注册顺序推进，保证一次仿真步内车道L的所有
// 检测事件先于车道L+1送达控制器
type Manager struct {
	data  map[int32]*Lane
	lanes []*Lane // 注册顺序
}

// NewManager 创建Lane管理器实例
// 功能：初始化Lane管理器，创建内部数据结构
// 返回：新创建的Lane管理器实例
func NewManager() *Manager {
	return &Manager{
		data:  make(map[int32]*Lane),
		lanes: make([]*Lane, 0),
	}
}

// Add 注册车道
// 功能：将车道加入管理器并记录注册顺序
// 参数：l-待注册车道
// 说明：重复的车道ID视为构造方错误直接panic
func (m *Manager) Add(l *Lane) {
	if _, ok := m.data[l.id]; ok {
		log.Panicf("duplicated id %d in lane data", l.id)
	}
	m.data[l.id] = l
	m.lanes = append(m.lanes, l)
}

// Get 根据ID获取Lane实例
// 功能：通过Lane ID查找对应的Lane对象，如果不存在则panic
// 参数：id-Lane的唯一标识符
// 返回：对应的Lane实例
func (m *Manager) Get(id int32) *Lane {
	if lane, ok := m.data[id]; !ok {
		log.Panicf("no id %d in lane data", id)
		return nil
	} else {
		return lane
	}
}

// Data 获取按注册顺序排列的车道列表
func (m *Manager) Data() []*Lane {
	return m.lanes
}

// Update 更新阶段
// 功能：按注册顺序推进所有车道一个仿真步
func (m *Manager) Update() {
	for _, l := range m.lanes {
		l.Tick()
	}
}

// TotalWait 获取全部车道已驶离车辆的累计等待步数
func (m *Manager) TotalWait() int {
	return lo.SumBy(m.lanes, func(l *Lane) int { return l.totalWait })
}

// MaxCarOut 获取所有车道中最大的驶离车辆数
// 功能：用于判定仿真终止条件（任一车道驶离数达到阈值）
func (m *Manager) MaxCarOut() int {
	return lo.MaxBy(lo.Map(m.lanes, func(l *Lane, _ int) int { return l.carOut }),
		func(a, b int) bool { return a > b })
}
