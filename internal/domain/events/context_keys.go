package events

// Context keys for event data
const (
	ContextFeatKey    = "feat_key"    // string
	ContextFeatChoice = "feat_choice" // string: sub-choice of a variable feat
	ContextPrevChoice = "prev_choice" // string: replaced sub-choice

	ContextItemID    = "item_id"   // string: inventory instance ID
	ContextItemKey   = "item_key"  // string: catalog key
	ContextQuantity  = "quantity"  // int
	ContextSlot      = "slot"      // string
	ContextDisplaced = "displaced" // []string: instance IDs moved out of their slot

	ContextSpellKey    = "spell_key"    // string
	ContextCasterClass = "caster_class" // string
	ContextCasterLevel = "caster_level" // int
	ContextSpellLevel  = "spell_level"  // int: effective level after metamagic
	ContextSpellSaveDC = "spell_save_dc"
	ContextMetamagic   = "metamagic" // []string in application order

	ContextClass      = "class"       // string
	ContextClassLevel = "class_level" // int
	ContextLevel      = "level"       // int: new character level
	ContextHitDieRoll = "hit_die_roll"
)
