package sender

// Version is the sender module version, used in the default User-Agent.
const Version = "1.0.0"
