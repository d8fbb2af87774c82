package glm

type Vec2f = Vec2[float32]
type Vec2u = Vec2[uint32]
type Vec3f = Vec3[float32]
