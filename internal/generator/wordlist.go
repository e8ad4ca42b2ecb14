package generator

// wordList is a fixed set of short, common, unambiguous words for
// passphrase generation.
var wordList = []string{
	"acorn", "amber", "anchor", "apple", "arrow", "aspen", "atlas", "autumn",
	"badge", "bamboo", "basil", "beacon", "berry", "birch", "bison", "blaze",
	"breeze", "bridge", "brook", "bucket", "butter", "cabin", "cactus", "candle",
	"canoe", "canyon", "carbon", "castle", "cedar", "cherry", "cliff", "clover",
	"cobalt", "comet", "copper", "coral", "cotton", "crane", "crater", "cricket",
	"crystal", "cypress", "daisy", "dawn", "delta", "desert", "dolphin", "domino",
	"dragon", "drift", "eagle", "ember", "falcon", "feather", "fern", "flint",
	"forest", "fossil", "fox", "frost", "garden", "garnet", "geyser", "ginger",
	"glacier", "granite", "grove", "harbor", "hazel", "heron", "hickory", "horizon",
	"island", "ivory", "jasper", "juniper", "kelp", "lagoon", "lantern", "laurel",
	"lavender", "lemon", "lichen", "lily", "lotus", "lunar", "maple", "marble",
	"meadow", "mesa", "mint", "mirror", "molten", "morning", "mountain", "nectar",
	"nickel", "north", "oasis", "ocean", "olive", "onyx", "orchid", "osprey",
	"otter", "pebble", "pepper", "pine", "plume", "polar", "poppy", "prairie",
	"quartz", "raven", "reef", "ridge", "river", "saffron", "sage", "salmon",
	"sandal", "sapphire", "shadow", "sierra", "silver", "sparrow", "spruce", "stone",
	"summit", "sunset", "thistle", "thunder", "timber", "topaz", "tulip", "tundra",
	"valley", "velvet", "violet", "walnut", "willow", "winter", "yarrow", "zephyr",
}
