package apps

var defaultEntries = map[string]Entry{
	"appstore":   {IOS: "com.apple.AppStore"},
	"calculator": {IOS: "com.apple.calculator", Android: "com.google.android.calculator"},
	"calendar":   {IOS: "com.apple.mobilecal", Android: "com.google.android.calendar"},
	"camera":     {IOS: "com.apple.camera", Android: "com.android.camera2"},
	"chrome":     {IOS: "com.google.chrome.ios", Android: "com.android.chrome"},
	"clock":      {IOS: "com.apple.mobiletimer", Android: "com.google.android.deskclock"},
	"contacts":   {IOS: "com.apple.MobileAddressBook", Android: "com.google.android.contacts"},
	"facebook":   {IOS: "com.facebook.Facebook", Android: "com.facebook.katana"},
	"files":      {IOS: "com.apple.DocumentsApp", Android: "com.google.android.apps.nbu.files"},
	"gallery":    {Android: "com.google.android.apps.photos"},
	"gmail":      {IOS: "com.google.Gmail", Android: "com.google.android.gm"},
	"instagram":  {IOS: "com.burbn.instagram", Android: "com.instagram.android"},
	"maps":       {IOS: "com.apple.Maps", Android: "com.google.android.apps.maps"},
	"messages":   {IOS: "com.apple.MobileSMS", Android: "com.google.android.apps.messaging"},
	"notes":      {IOS: "com.apple.mobilenotes", Android: "com.google.android.keep"},
	"phone":      {IOS: "com.apple.mobilephone", Android: "com.google.android.dialer"},
	"photos":     {IOS: "com.apple.mobileslideshow", Android: "com.google.android.apps.photos"},
	"playstore":  {Android: "com.android.vending"},
	"safari":     {IOS: "com.apple.mobilesafari"},
	"settings":   {IOS: "com.apple.Preferences", Android: "com.android.settings"},
	"slack":      {IOS: "com.tinyspeck.chatlyio", Android: "com.Slack"},
	"spotify":    {IOS: "com.spotify.client", Android: "com.spotify.music"},
	"telegram":   {IOS: "ph.telegra.Telegraph", Android: "org.telegram.messenger"},
	"twitter":    {IOS: "com.atebits.Tweetie2", Android: "com.twitter.android"},
	"whatsapp":   {IOS: "net.whatsapp.WhatsApp", Android: "com.whatsapp"},
	"youtube":    {IOS: "com.google.ios.youtube", Android: "com.google.android.youtube"},
}
