package bloom

import _ "embed"

//go:embed brightness.wgsl
var brightnessShaderCode string

//go:embed blur.wgsl
var blurShaderCode string

//go:embed composite.wgsl
var compositeShaderCode string
