// Mamdani模糊推理引擎
// 功能：将（排队量, 到达量）映射为绿灯延长秒数
// 说明：引擎为纯函数实现，调用之间无状态，可安全并发调用
package fuzzy

import (
	"math"
)

const (
	// InputMax 输入论域上界，输入被截断到[0, InputMax]
	InputMax = 15
	// OutputMax 输出论域上界，输出落在[0, OutputMax]
	OutputMax = 6
)

// triangle 三角隶属函数，参数 a <= b <= c
// 说明：[a,c]之外隶属度为0，在b处线性升至1再线性降至0；
// a=b时左边界为阶跃，b=c时右边界为阶跃
type triangle struct {
	a, b, c float64
}

// grade 计算x的隶属度
func (t triangle) grade(x float64) float64 {
	switch {
	case x < t.a || x > t.c:
		return 0
	case x < t.b:
		return (x - t.a) / (t.b - t.a)
	case x == t.b:
		return 1
	default:
		return (t.c - x) / (t.c - t.b)
	}
}

// 输入输出语言变量的隶属函数
var (
	// 到达量论域[0,15]：AN(几乎没有) F(少) MY(多) TMY(非常多)
	arrivalTerms = [4]triangle{
		{0, 0, 2},    // AN
		{1, 4, 7},    // F
		{5, 9, 13},   // MY
		{10, 15, 15}, // TMY
	}
	// 排队量论域[0,15]：VS(很短) S(短) M(中) L(长)
	queueTerms = [4]triangle{
		{0, 0, 2},    // VS
		{1, 4, 7},    // S
		{5, 9, 13},   // M
		{10, 15, 15}, // L
	}
	// 延长量论域[0,6]：Z(零) SO(略延长) ML(中等) LO(长)
	outputTerms = [4]triangle{
		{0, 0, 2}, // Z
		{0, 2, 4}, // SO
		{2, 4, 6}, // ML
		{4, 6, 6}, // LO
	}
)

// 输出语言值下标
const (
	outZ = iota
	outSO
	outML
	outLO
)

// ruleTable 规则库：行=到达量(AN F MY TMY)，列=排队量(VS S M L)
// 说明：到达越多越倾向延长绿灯，排队越长越倾向不延长
var ruleTable = [4][4]int{
	{outZ, outZ, outZ, outZ},     // AN
	{outSO, outSO, outZ, outZ},   // F
	{outML, outML, outSO, outZ},  // MY
	{outLO, outML, outML, outSO}, // TMY
}

// clamp 将x截断到[lo, hi]
func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

// Extension 计算绿灯延长量
// 功能：Mamdani最小-最大推理加重心解模糊
// 参数：queue-排队量，arrival-到达量（均截断到[0,15]）
// 返回：延长量，落在[0, 6]
// 算法说明：
// 1. 模糊化：计算两个输入对各语言值的隶属度
// 2. 对16条规则以min为合取计算激活强度alpha
// 3. 蕴含与聚合：对每个输出采样点y取max(min(alpha, 输出隶属度))
// 4. 重心解模糊：在离散采样y∈{0..6}上计算 Σy·μ/Σμ，聚合质量为0时返回0
func Extension(queue, arrival float64) float64 {
	q := clamp(queue, 0, InputMax)
	a := clamp(arrival, 0, InputMax)

	var aggregated [OutputMax + 1]float64
	for i, at := range arrivalTerms {
		ga := at.grade(a)
		if ga == 0 {
			continue
		}
		for j, qt := range queueTerms {
			alpha := math.Min(ga, qt.grade(q))
			if alpha == 0 {
				continue
			}
			out := outputTerms[ruleTable[i][j]]
			for y := 0; y <= OutputMax; y++ {
				m := math.Min(alpha, out.grade(float64(y)))
				if m > aggregated[y] {
					aggregated[y] = m
				}
			}
		}
	}

	num, den := 0.0, 0.0
	for y, m := range aggregated {
		num += float64(y) * m
		den += m
	}
	if den == 0 {
		return 0
	}
	return num / den
}
