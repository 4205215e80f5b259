package featureflag

type Flag string

const (
	FlagDisableMutationPhase Flag = "DISABLE_MUTATION_PHASE"
	FlagDisableSpriteChurn   Flag = "DISABLE_SPRITE_CHURN"
	FlagDisableQueryCaches   Flag = "DISABLE_QUERY_CACHES"
	FlagValidateWorldRange   Flag = "VALIDATE_WORLD_RANGE"
)
