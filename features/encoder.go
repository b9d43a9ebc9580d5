package features

// Vector 是按 Schema.Columns 顺序排列的特征向量
type Vector []float64

// Source 为编码器按字段名提供原始取值
type Source interface {
	Numeric(name string) float64
	Category(name string) string
}

// Encode 将一条记录编码为特征向量。
// 不在 schema 中的类别取值得到全 0 的 one-hot 块，不报错。
func (s Schema) Encode(src Source) Vector {
	vec := make(Vector, 0, s.Width())
	for _, name := range s.Numeric {
		vec = append(vec, src.Numeric(name))
	}
	for _, f := range s.Categorical {
		val := src.Category(f.Name)
		for _, cat := range f.Values {
			if cat == val {
				vec = append(vec, 1)
			} else {
				vec = append(vec, 0)
			}
		}
	}
	return vec
}

// Unknown 返回取值不在 schema 中的类别字段名，按 schema 顺序
func (s Schema) Unknown(src Source) []string {
	var fields []string
	for _, f := range s.Categorical {
		if !s.Contains(f.Name, src.Category(f.Name)) {
			fields = append(fields, f.Name)
		}
	}
	return fields
}
